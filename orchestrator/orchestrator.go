// Package orchestrator drives one query through the full pipeline:
// route -> plan -> retrieve -> merge -> answer. Stages run sequentially on
// a per-request context; only the catalog/web retrieval pair fans out
// concurrently and joins before the merge.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/fusion"
	"github.com/voiceshop/assistant/metrics"
	"github.com/voiceshop/assistant/planner"
	"github.com/voiceshop/assistant/post"
	"github.com/voiceshop/assistant/retriever"
	"github.com/voiceshop/assistant/router"
	"github.com/voiceshop/assistant/schema"
)

// Orchestrator wires the pipeline stages.
type Orchestrator struct {
	Router    router.Router
	Planner   *planner.Planner
	Catalog   retriever.CatalogRetriever
	Web       retriever.WebRetriever
	Post      *post.Engine
	Merger    *fusion.Merger
	Synth     Synthesizer
	Retrieval config.RetrievalConfig
}

// Run executes the pipeline for query. It always returns a normalized
// response; partial failures degrade the answer instead of failing the
// request. The only fatal condition is an unreachable product index.
func (o *Orchestrator) Run(ctx context.Context, query string) (schema.Response, error) {
	pc := &schema.PipelineContext{
		RequestID: uuid.NewString(),
		Query:     query,
		State:     schema.StateStart,
	}
	logger.Infof("pipeline %s: start query=%q", pc.RequestID, query)

	if err := o.route(ctx, pc); err != nil {
		return schema.Response{}, err
	}
	if pc.State != schema.StateAnswered {
		o.plan(ctx, pc)
		if err := o.retrieve(ctx, pc); err != nil {
			return schema.Response{}, err
		}
	}
	if pc.State != schema.StateAnswered {
		o.merge(pc)
		o.answer(ctx, pc)
	}

	pc.State = schema.StateEnd
	logger.Infof("pipeline %s: end intent=%s products=%d warnings=%d",
		pc.RequestID, pc.Intent.Type, len(pc.Products), len(pc.Warnings))
	return pc.Response(), nil
}

// route classifies the query and short-circuits greetings and out-of-domain
// requests straight to a templated answer.
func (o *Orchestrator) route(ctx context.Context, pc *schema.PipelineContext) error {
	start := time.Now()
	defer metrics.ObserveStage("route", start)

	intent, err := o.Router.Route(ctx, pc.Query)
	if err != nil {
		// Router contracts say classification never fails the request, so
		// an error here means even the fallback path broke.
		return fmt.Errorf("route: %w", err)
	}
	pc.Intent = intent
	pc.State = schema.StateRouted
	if intent.ParseError {
		pc.Warn("classifier output malformed, using fallback intent")
	}

	switch intent.Type {
	case schema.IntentGreeting:
		pc.Answer = greetingAnswer()
		pc.State = schema.StateAnswered
		metrics.IncShortCircuit("greeting")
	case schema.IntentOutOfDomain:
		pc.Answer = outOfDomainAnswer()
		pc.State = schema.StateAnswered
		metrics.IncShortCircuit("out_of_domain")
	}
	return nil
}

func (o *Orchestrator) plan(ctx context.Context, pc *schema.PipelineContext) {
	start := time.Now()
	defer metrics.ObserveStage("plan", start)

	pc.Plan = o.Planner.Build(ctx, pc.Intent)
	pc.State = schema.StatePlanned
	logger.Debugf("pipeline %s: plan sources=%v policy=%s", pc.RequestID, pc.Plan.Sources, pc.Plan.ConflictPolicy)
}

// retrieve fans out to the planned sources concurrently and joins both
// before returning. A web failure degrades to catalog-only results; a
// catalog failure is fatal since the index is the system of record.
func (o *Orchestrator) retrieve(ctx context.Context, pc *schema.PipelineContext) error {
	start := time.Now()
	defer metrics.ObserveStage("retrieve", start)

	var (
		wg         sync.WaitGroup
		candidates []schema.CatalogCandidate
		webResults []schema.WebResult
		catErr     error
		webErr     error
	)

	if pc.Plan.HasSource(schema.SourceCatalog) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			candidates, catErr = o.Catalog.Search(ctx, pc.Query, o.Retrieval.TopK)
		}()
	}
	if pc.Plan.HasSource(schema.SourceLive) && o.Web != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			webResults, webErr = o.Web.Search(ctx, pc.Query)
		}()
	}
	wg.Wait()

	if catErr != nil {
		if errors.Is(catErr, schema.ErrIndexUnavailable) {
			return fmt.Errorf("retrieve: %w", catErr)
		}
		// Non-fatal catalog trouble (embedding hiccup) degrades like web.
		pc.Warn("catalog retrieval failed: " + catErr.Error())
		logger.Warnf("pipeline %s: catalog retrieval failed: %v", pc.RequestID, catErr)
	}
	if webErr != nil {
		pc.Warn("live search unavailable, catalog data only")
		logger.Warnf("pipeline %s: web retrieval failed: %v", pc.RequestID, webErr)
	}

	pc.Candidates = o.Post.Process(candidates, pc.Intent.Constraints)
	pc.WebResults = webResults
	pc.State = schema.StateRetrieved

	if len(pc.Candidates) == 0 {
		pc.Warn(schema.ErrRetrievalEmpty.Error())
		pc.Products = []schema.RankedProduct{}
		pc.Answer = emptyResultAnswer(pc.Intent)
		pc.State = schema.StateAnswered
		metrics.IncShortCircuit("no_candidates")
	}
	return nil
}

func (o *Orchestrator) merge(pc *schema.PipelineContext) {
	start := time.Now()
	defer metrics.ObserveStage("merge", start)

	merged := o.Merger.Merge(pc.Candidates, pc.WebResults, pc.Plan.ConflictPolicy)
	pc.Products = make([]schema.RankedProduct, 0, len(merged))
	pc.Citations = schema.Citations{}
	for _, c := range merged {
		pc.Products = append(pc.Products, c.Ranked())
		pc.Citations.Catalog = append(pc.Citations.Catalog, c.DocID())
	}
	if len(pc.WebResults) > 0 {
		for _, w := range pc.WebResults {
			if w.URL != "" {
				pc.Citations.Web = append(pc.Citations.Web, w.URL)
			}
		}
	}
	pc.State = schema.StateMerged
}

func (o *Orchestrator) answer(ctx context.Context, pc *schema.PipelineContext) {
	start := time.Now()
	defer metrics.ObserveStage("answer", start)

	answer, err := o.Synth.Synthesize(ctx, pc)
	if err != nil {
		pc.Warn("answer synthesis degraded to template")
		logger.Warnf("pipeline %s: synthesis failed: %v", pc.RequestID, err)
		answer = templatedAnswer(pc)
	}
	pc.Answer = answer
	pc.State = schema.StateAnswered
}
