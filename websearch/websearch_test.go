package websearch

import (
	"context"
	"sync"
	"testing"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

type countingProvider struct {
	calls   int
	results []schema.WebResult
	err     error
}

func (c *countingProvider) Search(_ context.Context, _ string, _ int) ([]schema.WebResult, error) {
	c.calls++
	return c.results, c.err
}

func TestSearchCachesByQuery(t *testing.T) {
	p := &countingProvider{results: []schema.WebResult{{Title: "Spray", URL: "https://a"}}}
	s := NewWithProvider(p, config.WebSearchConfig{MinIntervalMs: 1, CacheTTLSeconds: 60}, nil)

	for i := 0; i < 3; i++ {
		got, err := s.Search(context.Background(), "stainless cleaner price")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 result, got %d", len(got))
		}
	}
	if p.calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", p.calls)
	}
}

func TestSearchConcurrentSameKeySingleCall(t *testing.T) {
	p := &countingProvider{results: []schema.WebResult{{Title: "Spray", URL: "https://a"}}}
	s := NewWithProvider(p, config.WebSearchConfig{MinIntervalMs: 1, CacheTTLSeconds: 60}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Search(context.Background(), "stainless cleaner price")
			if err != nil {
				t.Error(err)
				return
			}
			if len(got) != 1 {
				t.Errorf("expected 1 result, got %d", len(got))
			}
		}()
	}
	wg.Wait()
	if p.calls != 1 {
		t.Fatalf("concurrent identical queries must share one upstream call, got %d", p.calls)
	}
}

func TestSearchDistinctQueriesMiss(t *testing.T) {
	p := &countingProvider{}
	s := NewWithProvider(p, config.WebSearchConfig{MinIntervalMs: 1, CacheTTLSeconds: 60}, nil)
	_, _ = s.Search(context.Background(), "cleaner a")
	_, _ = s.Search(context.Background(), "cleaner b")
	if p.calls != 2 {
		t.Fatalf("distinct queries must both reach the provider, got %d calls", p.calls)
	}
}

func TestSearchEnrichesPrices(t *testing.T) {
	p := &countingProvider{results: []schema.WebResult{
		{Title: "Eco Spray", Snippet: "Now only $11.49 with free shipping"},
	}}
	s := NewWithProvider(p, config.WebSearchConfig{MinIntervalMs: 1, CacheTTLSeconds: 60}, nil)
	got, err := s.Search(context.Background(), "eco spray")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Price == nil || *got[0].Price != 11.49 {
		t.Fatalf("expected extracted price 11.49, got %v", got[0].Price)
	}
}

func TestExtractPrice(t *testing.T) {
	cases := []struct {
		text string
		want *float64
	}{
		{"Buy now for $11.49", schema.Float64Ptr(11.49)},
		{"$1,299.00 flagship model", schema.Float64Ptr(1299.00)},
		{"USD 24.99 per bottle", schema.Float64Ptr(24.99)},
		{"no price here", nil},
		{"costs $0", nil},
	}
	for _, c := range cases {
		got := ExtractPrice(c.text)
		switch {
		case c.want == nil && got != nil:
			t.Errorf("ExtractPrice(%q) = %v, want nil", c.text, *got)
		case c.want != nil && got == nil:
			t.Errorf("ExtractPrice(%q) = nil, want %v", c.text, *c.want)
		case c.want != nil && got != nil && *got != *c.want:
			t.Errorf("ExtractPrice(%q) = %v, want %v", c.text, *got, *c.want)
		}
	}
}
