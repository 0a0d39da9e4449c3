package post

import (
	"testing"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

func cand(id string, price, rating *float64, dist float64) schema.CatalogCandidate {
	return schema.CatalogCandidate{
		ID: id, Title: "Cleaner " + id, Price: price, Rating: rating, Distance: dist,
	}
}

func f(v float64) *float64 { return schema.Float64Ptr(v) }

func TestBudgetFilterExcludesAbsentPrice(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{})
	in := []schema.CatalogCandidate{
		cand("a", f(9.99), nil, 0.1),
		cand("b", f(25.00), nil, 0.2),
		cand("c", nil, nil, 0.3),
	}
	got := e.Filter(in, schema.Constraints{Budget: f(15)})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("budget 15 over [9.99, 25.00, absent] must keep only a, got %v", ids(got))
	}
}

func TestBudgetBoundaryInclusive(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{})
	got := e.Filter([]schema.CatalogCandidate{cand("a", f(15), nil, 0)}, schema.Constraints{Budget: f(15)})
	if len(got) != 1 {
		t.Fatal("price equal to the budget must pass")
	}
}

func TestBrandFilterFuzzy(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{})
	in := []schema.CatalogCandidate{
		{ID: "a", Brand: "EcoShine"},
		{ID: "b", Brand: "Eco-Shine Home"},
		{ID: "c", Brand: "SparkleWorks"},
	}
	got := e.Filter(in, schema.Constraints{Brand: "ecoshine"})
	if len(got) != 2 {
		t.Fatalf("expected both EcoShine variants, got %v", ids(got))
	}
}

func TestBrandFilterPassesUnbrandedCandidates(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{})
	in := []schema.CatalogCandidate{{ID: "a", Brand: ""}}
	if got := e.Filter(in, schema.Constraints{Brand: "ecoshine"}); len(got) != 1 {
		t.Fatal("a candidate without a stored brand must pass the brand check")
	}
}

func TestCategoryFilterSubcategoryFirst(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{})
	in := []schema.CatalogCandidate{
		{ID: "a", Category: "Household", Subcategory: "Sprays"},
		{ID: "b", Category: "Laundry", Subcategory: "Pods"},
	}
	got := e.Filter(in, schema.Constraints{Category: "spray"})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected subcategory match for a, got %v", ids(got))
	}
}

func TestCategoryFilterPassesUncategorized(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{})
	in := []schema.CatalogCandidate{{ID: "a"}}
	if got := e.Filter(in, schema.Constraints{Category: "spray"}); len(got) != 1 {
		t.Fatal("a candidate without category data must pass the category check")
	}
}

func TestProcessDeduplicatesByID(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{TopK: 5})
	in := []schema.CatalogCandidate{
		cand("a", f(1), nil, 0.1),
		cand("a", f(1), nil, 0.4),
		cand("b", f(2), nil, 0.2),
	}
	got := e.Process(in, schema.Constraints{})
	if len(got) != 2 {
		t.Fatalf("expected dedup to 2, got %v", ids(got))
	}
	if got[0].ID != "a" || got[0].Distance != 0.1 {
		t.Fatal("dedup must keep the most similar occurrence")
	}
}

func TestEmptyConstraintsNoFiltering(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{})
	in := []schema.CatalogCandidate{cand("a", nil, nil, 0), cand("b", f(5), nil, 0)}
	if got := e.Filter(in, schema.Constraints{}); len(got) != 2 {
		t.Fatal("no constraints means no candidate is dropped")
	}
}

func TestProcessTruncatesToTopK(t *testing.T) {
	e := NewEngine(config.RetrievalConfig{TopK: 2})
	in := []schema.CatalogCandidate{
		cand("a", f(1), nil, 0.1),
		cand("b", f(2), nil, 0.2),
		cand("c", f(3), nil, 0.3),
	}
	got := e.Process(in, schema.Constraints{})
	if len(got) != 2 {
		t.Fatalf("expected top 2, got %d", len(got))
	}
}

func ids(cs []schema.CatalogCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
