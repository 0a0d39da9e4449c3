package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/fusion"
	"github.com/voiceshop/assistant/planner"
	"github.com/voiceshop/assistant/post"
	"github.com/voiceshop/assistant/schema"
)

type fixedRouter struct {
	intent schema.Intent
}

func (r fixedRouter) Route(_ context.Context, _ string) (schema.Intent, error) {
	return r.intent, nil
}

type fakeCatalog struct {
	calls int
	rows  []schema.CatalogCandidate
	err   error
}

func (f *fakeCatalog) Search(_ context.Context, _ string, _ int) ([]schema.CatalogCandidate, error) {
	f.calls++
	return f.rows, f.err
}

type fakeWeb struct {
	calls   int
	results []schema.WebResult
	err     error
}

func (f *fakeWeb) Search(_ context.Context, _ string) ([]schema.WebResult, error) {
	f.calls++
	return f.results, f.err
}

type fakeSynth struct {
	out string
	err error
}

func (f fakeSynth) Synthesize(_ context.Context, _ *schema.PipelineContext) (string, error) {
	return f.out, f.err
}

func price(v float64) *float64 { return schema.Float64Ptr(v) }

func newOrchestrator(intent schema.Intent, cat *fakeCatalog, web *fakeWeb, synth Synthesizer) *Orchestrator {
	return &Orchestrator{
		Router:    fixedRouter{intent: intent},
		Planner:   planner.New(config.PlannerConfig{}, nil),
		Catalog:   cat,
		Web:       web,
		Post:      post.NewEngine(config.RetrievalConfig{TopK: 5}),
		Merger:    fusion.NewMerger(config.MergeConfig{}),
		Synth:     synth,
		Retrieval: config.RetrievalConfig{TopK: 5},
	}
}

func TestGreetingShortCircuit(t *testing.T) {
	cat := &fakeCatalog{}
	web := &fakeWeb{}
	o := newOrchestrator(schema.Intent{Type: schema.IntentGreeting}, cat, web, fakeSynth{})

	resp, err := o.Run(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if cat.calls != 0 || web.calls != 0 {
		t.Fatal("greeting must not trigger retrieval")
	}
	if resp.Answer == "" || len(resp.Products) != 0 {
		t.Fatalf("expected templated greeting with no products, got %+v", resp)
	}
}

func TestOutOfDomainShortCircuit(t *testing.T) {
	cat := &fakeCatalog{}
	o := newOrchestrator(schema.Intent{Type: schema.IntentOutOfDomain}, cat, &fakeWeb{}, fakeSynth{})
	resp, err := o.Run(context.Background(), "rc boat motor")
	if err != nil {
		t.Fatal(err)
	}
	if cat.calls != 0 {
		t.Fatal("out-of-domain must not trigger retrieval")
	}
	if !strings.Contains(resp.Answer, "household") {
		t.Fatalf("expected domain refusal, got %q", resp.Answer)
	}
}

func TestCatalogOnlyFlow(t *testing.T) {
	cat := &fakeCatalog{rows: []schema.CatalogCandidate{
		{ID: "p1", Title: "Glass Cleaner", Price: price(8.99), Distance: 0.1},
		{ID: "p2", Title: "Floor Polish", Price: price(12.50), Distance: 0.2},
	}}
	web := &fakeWeb{}
	o := newOrchestrator(schema.Intent{Type: schema.IntentProductQuery}, cat, web, fakeSynth{out: "Two options."})

	resp, err := o.Run(context.Background(), "glass cleaner")
	if err != nil {
		t.Fatal(err)
	}
	if web.calls != 0 {
		t.Fatal("plan without live-price need must not hit web search")
	}
	if len(resp.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(resp.Products))
	}
	if resp.Answer != "Two options." {
		t.Fatalf("unexpected answer %q", resp.Answer)
	}
	if len(resp.Citations.Catalog) != 2 || resp.Citations.Catalog[0] != "products::p1" {
		t.Fatalf("unexpected catalog citations %v", resp.Citations.Catalog)
	}
	if len(resp.Citations.Web) != 0 {
		t.Fatal("no web citations expected")
	}
}

func TestLivePriceFlowMergesAndCites(t *testing.T) {
	cat := &fakeCatalog{rows: []schema.CatalogCandidate{
		{ID: "p1", Title: "Eco Stainless Cleaner Spray", Price: price(12.99), Distance: 0.1},
	}}
	web := &fakeWeb{results: []schema.WebResult{
		{Title: "Eco-Friendly Stainless Steel Cleaner Spray", URL: "https://web/x", Price: price(11.49)},
	}}
	o := newOrchestrator(schema.Intent{Type: schema.IntentProductQuery, NeedsLivePrice: true}, cat, web, fakeSynth{out: "ok"})

	resp, err := o.Run(context.Background(), "current price of eco stainless cleaner spray")
	if err != nil {
		t.Fatal(err)
	}
	if web.calls != 1 {
		t.Fatalf("live-price plan must hit web search once, got %d", web.calls)
	}
	if resp.Products[0].Price == nil || *resp.Products[0].Price != 11.49 {
		t.Fatalf("live price must overwrite catalog price, got %v", resp.Products[0].Price)
	}
	if len(resp.Citations.Web) != 1 || resp.Citations.Web[0] != "https://web/x" {
		t.Fatalf("expected web citation, got %v", resp.Citations.Web)
	}
}

func TestWebFailureDegradesGracefully(t *testing.T) {
	cat := &fakeCatalog{rows: []schema.CatalogCandidate{
		{ID: "p1", Title: "Glass Cleaner", Price: price(8.99), Distance: 0.1},
	}}
	web := &fakeWeb{err: schema.ErrServiceUnavailable}
	o := newOrchestrator(schema.Intent{Type: schema.IntentProductQuery, NeedsLivePrice: true}, cat, web, fakeSynth{out: "ok"})

	resp, err := o.Run(context.Background(), "current price of glass cleaner")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Products) != 1 || *resp.Products[0].Price != 8.99 {
		t.Fatal("catalog results must survive a web failure")
	}
}

func TestEmptyRetrievalShortCircuit(t *testing.T) {
	cat := &fakeCatalog{rows: []schema.CatalogCandidate{
		{ID: "p1", Title: "Glass Cleaner", Price: price(25.00), Distance: 0.1},
	}}
	o := newOrchestrator(schema.Intent{
		Type:        schema.IntentProductQuery,
		Constraints: schema.Constraints{Budget: price(10)},
	}, cat, &fakeWeb{}, fakeSynth{out: "should not be used"})

	resp, err := o.Run(context.Background(), "glass cleaner under 10")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Products) != 0 {
		t.Fatal("no product survives the budget filter")
	}
	if !strings.Contains(resp.Answer, "$10.00") {
		t.Fatalf("empty answer should cite the budget, got %q", resp.Answer)
	}
}

func TestIndexUnavailableIsFatal(t *testing.T) {
	cat := &fakeCatalog{err: schema.ErrIndexUnavailable}
	o := newOrchestrator(schema.Intent{Type: schema.IntentProductQuery}, cat, &fakeWeb{}, fakeSynth{})
	if _, err := o.Run(context.Background(), "glass cleaner"); !errors.Is(err, schema.ErrIndexUnavailable) {
		t.Fatalf("expected fatal index error, got %v", err)
	}
}

func TestSynthesisFailureFallsBackToTemplate(t *testing.T) {
	cat := &fakeCatalog{rows: []schema.CatalogCandidate{
		{ID: "p1", Title: "Glass Cleaner", Price: price(8.99), Distance: 0.1},
	}}
	o := newOrchestrator(schema.Intent{Type: schema.IntentProductQuery}, cat, &fakeWeb{}, fakeSynth{err: errors.New("llm down")})

	resp, err := o.Run(context.Background(), "glass cleaner")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Answer, "Glass Cleaner") || !strings.Contains(resp.Answer, "$8.99") {
		t.Fatalf("templated fallback should enumerate products, got %q", resp.Answer)
	}
}

func TestResponseAlwaysNormalized(t *testing.T) {
	o := newOrchestrator(schema.Intent{Type: schema.IntentGreeting}, &fakeCatalog{}, &fakeWeb{}, fakeSynth{})
	resp, err := o.Run(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Products == nil || resp.Citations.Catalog == nil || resp.Citations.Web == nil {
		t.Fatal("response slices must be non-nil even when empty")
	}
}
