package fusion

import (
	"testing"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

func f(v float64) *float64 { return schema.Float64Ptr(v) }

func TestMergeWebOverwritesPrice(t *testing.T) {
	m := NewMerger(config.MergeConfig{TitleThreshold: 0.55})
	cands := []schema.CatalogCandidate{
		{ID: "p1", Title: "Eco Stainless Cleaner Spray", Brand: "EcoShine", Price: f(12.99), ProductURL: "https://shop/p1"},
	}
	web := []schema.WebResult{
		{Title: "Eco-Friendly Stainless Steel Cleaner Spray", URL: "https://web/x", Price: f(11.49)},
	}
	got := m.Merge(cands, web, schema.WebOverwritesCatalog)

	if got[0].Price == nil || *got[0].Price != 11.49 {
		t.Fatalf("expected live price 11.49, got %v", got[0].Price)
	}
	if got[0].Title != "Eco Stainless Cleaner Spray" || got[0].Brand != "EcoShine" || got[0].ProductURL != "https://shop/p1" {
		t.Fatal("merge must be price-only; identity fields changed")
	}
}

func TestMergePreferCatalogKeepsPrice(t *testing.T) {
	m := NewMerger(config.MergeConfig{})
	cands := []schema.CatalogCandidate{
		{ID: "p1", Title: "Glass Cleaner", Price: f(8.99)},
	}
	web := []schema.WebResult{{Title: "Glass Cleaner", Price: f(6.49)}}
	got := m.Merge(cands, web, schema.PreferCatalog)
	if *got[0].Price != 8.99 {
		t.Fatalf("prefer_private_price must keep 8.99, got %v", *got[0].Price)
	}
}

func TestMergePreferCatalogLeavesAbsentPrice(t *testing.T) {
	m := NewMerger(config.MergeConfig{})
	cands := []schema.CatalogCandidate{{ID: "p1", Title: "Glass Cleaner"}}
	web := []schema.WebResult{{Title: "Glass Cleaner", Price: f(6.49)}}
	got := m.Merge(cands, web, schema.PreferCatalog)
	if got[0].Price != nil {
		t.Fatalf("prefer_private_price never touches prices, got %v", *got[0].Price)
	}
}

func TestMergeAtThresholdNoChange(t *testing.T) {
	// "spray" vs "sprat" is one edit over five characters, a ratio of
	// exactly 0.8; a match must exceed the threshold, not meet it.
	m := NewMerger(config.MergeConfig{TitleThreshold: 0.8})
	cands := []schema.CatalogCandidate{{ID: "p1", Title: "Spray", Price: f(12.99)}}
	web := []schema.WebResult{{Title: "Sprat", Price: f(3.99)}}
	got := m.Merge(cands, web, schema.WebOverwritesCatalog)
	if *got[0].Price != 12.99 {
		t.Fatalf("an exactly-at-threshold match must not merge, got %v", *got[0].Price)
	}
}

func TestMergeBelowThresholdNoChange(t *testing.T) {
	m := NewMerger(config.MergeConfig{TitleThreshold: 0.55})
	cands := []schema.CatalogCandidate{
		{ID: "p1", Title: "Eco Stainless Cleaner Spray", Price: f(12.99)},
	}
	web := []schema.WebResult{
		{Title: "Lavender Laundry Detergent Pods", Price: f(3.99)},
	}
	got := m.Merge(cands, web, schema.WebOverwritesCatalog)
	if *got[0].Price != 12.99 {
		t.Fatalf("dissimilar titles must not merge, got %v", *got[0].Price)
	}
}

func TestMergePricelessWebResultIgnored(t *testing.T) {
	m := NewMerger(config.MergeConfig{})
	cands := []schema.CatalogCandidate{
		{ID: "p1", Title: "Glass Cleaner", Price: f(8.99)},
	}
	web := []schema.WebResult{{Title: "Glass Cleaner"}}
	got := m.Merge(cands, web, schema.WebOverwritesCatalog)
	if *got[0].Price != 8.99 {
		t.Fatal("a web match without a price must not change the candidate")
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	m := NewMerger(config.MergeConfig{})
	if got := m.Merge(nil, []schema.WebResult{{Title: "x"}}, schema.WebOverwritesCatalog); got != nil {
		t.Fatal("nil candidates stay nil")
	}
	cands := []schema.CatalogCandidate{{ID: "p1", Title: "Glass Cleaner", Price: f(8.99)}}
	got := m.Merge(cands, nil, schema.WebOverwritesCatalog)
	if len(got) != 1 || *got[0].Price != 8.99 {
		t.Fatal("no web results means no change")
	}
}

func TestMergeBestSingleMatchWins(t *testing.T) {
	m := NewMerger(config.MergeConfig{TitleThreshold: 0.5})
	cands := []schema.CatalogCandidate{
		{ID: "p1", Title: "Glass Cleaner Spray", Price: f(8.99)},
	}
	web := []schema.WebResult{
		{Title: "Glass Cleaner", Price: f(7.99)},
		{Title: "Glass Cleaner Spray", Price: f(6.99)},
	}
	got := m.Merge(cands, web, schema.WebOverwritesCatalog)
	if *got[0].Price != 6.99 {
		t.Fatalf("closest title must win, got %v", *got[0].Price)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	m := NewMerger(config.MergeConfig{})
	cands := []schema.CatalogCandidate{{ID: "p1", Title: "Glass Cleaner", Price: f(8.99)}}
	web := []schema.WebResult{{Title: "Glass Cleaner", Price: f(5.99)}}
	_ = m.Merge(cands, web, schema.WebOverwritesCatalog)
	if *cands[0].Price != 8.99 {
		t.Fatal("input slice must stay untouched")
	}
}
