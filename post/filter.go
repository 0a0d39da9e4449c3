// Package post applies constraint filtering and reranking to the raw
// over-fetched candidate set, then truncates it to the final top-k.
package post

import (
	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/metrics"
	"github.com/voiceshop/assistant/schema"
	"github.com/voiceshop/assistant/textmatch"
)

// Engine filters and ranks catalog candidates.
type Engine struct {
	cfg config.RetrievalConfig
}

func NewEngine(cfg config.RetrievalConfig) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = config.DefaultTopK
	}
	if cfg.BrandThreshold <= 0 {
		cfg.BrandThreshold = config.DefaultBrandThreshold
	}
	if cfg.CategoryThreshold <= 0 {
		cfg.CategoryThreshold = config.DefaultCategoryThreshold
	}
	if cfg.Strategy == "" {
		cfg.Strategy = config.DefaultStrategy
	}
	return &Engine{cfg: cfg}
}

// Process runs the full post pipeline: dedup by id, hard constraint
// filters, rerank by the configured strategy, truncate to top-k.
func (e *Engine) Process(candidates []schema.CatalogCandidate, c schema.Constraints) []schema.CatalogCandidate {
	kept := e.Filter(dedupeByID(candidates), c)
	metrics.ObserveFilterSurvivors(len(kept))
	ranked := e.Rerank(kept)
	if len(ranked) > e.cfg.TopK {
		ranked = ranked[:e.cfg.TopK]
	}
	return ranked
}

// dedupeByID keeps the first occurrence of each id, which in retrieval
// order is the most similar one.
func dedupeByID(candidates []schema.CatalogCandidate) []schema.CatalogCandidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]schema.CatalogCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Filter applies the hard constraints in a fixed order. Budget is strict:
// a candidate with no price cannot prove it is affordable and is excluded
// whenever a budget is set. Brand and category match fuzzily so catalog
// spelling variants still pass; a candidate with no stored brand is not
// penalized for the catalog's missing data and passes the brand check.
func (e *Engine) Filter(candidates []schema.CatalogCandidate, c schema.Constraints) []schema.CatalogCandidate {
	if c.Empty() {
		return candidates
	}
	out := make([]schema.CatalogCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if c.Budget != nil {
			if cand.Price == nil || *cand.Price > *c.Budget {
				continue
			}
		}
		if c.Brand != "" && cand.Brand != "" && !textmatch.ContainsToken(cand.Brand, c.Brand, e.cfg.BrandThreshold) {
			continue
		}
		if c.Category != "" && !matchCategory(cand, c.Category, e.cfg.CategoryThreshold) {
			continue
		}
		out = append(out, cand)
	}
	logger.Debugf("post: %d of %d candidates survived constraint filtering", len(out), len(candidates))
	return out
}

// matchCategory tests the subcategory first, falling back to the category.
// A candidate with neither stored passes, same unknown-data policy as brand.
func matchCategory(cand schema.CatalogCandidate, category string, threshold float64) bool {
	if cand.Subcategory == "" && cand.Category == "" {
		return true
	}
	return textmatch.Match(cand.Subcategory, category, threshold) ||
		textmatch.Match(cand.Category, category, threshold)
}
