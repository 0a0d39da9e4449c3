// Package fusion joins catalog candidates with live web results. The merge
// is price-only: web data may refresh a product's price but never its
// identity fields, so catalog titles, brands and URLs stay authoritative.
package fusion

import (
	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/metrics"
	"github.com/voiceshop/assistant/schema"
	"github.com/voiceshop/assistant/textmatch"
)

// Merger reconciles prices across the catalog and live web sources.
type Merger struct {
	titleThreshold float64
}

func NewMerger(cfg config.MergeConfig) *Merger {
	th := cfg.TitleThreshold
	if th <= 0 {
		th = config.DefaultTitleThreshold
	}
	return &Merger{titleThreshold: th}
}

// Merge pairs each candidate with its best-matching web result by title
// similarity. Only the single best web match strictly above the threshold
// is considered per product, and a web result without an extractable price
// never changes anything. Prices mutate only under WebOverwritesCatalog;
// PreferCatalog leaves every candidate untouched, absent price included.
// Candidates are returned in their input order with all other fields
// untouched.
func (m *Merger) Merge(candidates []schema.CatalogCandidate, web []schema.WebResult, policy schema.ConflictPolicy) []schema.CatalogCandidate {
	if len(candidates) == 0 || len(web) == 0 {
		return candidates
	}
	out := make([]schema.CatalogCandidate, len(candidates))
	copy(out, candidates)

	if policy != schema.WebOverwritesCatalog {
		return out
	}
	for i := range out {
		best, score := bestMatch(out[i].Title, web)
		if best == nil || score <= m.titleThreshold {
			continue
		}
		if best.Price == nil {
			continue
		}
		if out[i].Price == nil || *out[i].Price != *best.Price {
			logger.Debugf("fusion: %q price %v replaced by live %v (match %.2f)",
				out[i].Title, ptrVal(out[i].Price), *best.Price, score)
			metrics.IncMergeOverwrite()
		}
		out[i].Price = schema.Float64Ptr(*best.Price)
	}
	return out
}

// bestMatch returns the web result whose title is most similar to title.
func bestMatch(title string, web []schema.WebResult) (*schema.WebResult, float64) {
	var best *schema.WebResult
	bestScore := -1.0
	for i := range web {
		s := textmatch.Similarity(title, web[i].Title)
		if s > bestScore {
			best = &web[i]
			bestScore = s
		}
	}
	return best, bestScore
}

func ptrVal(p *float64) any {
	if p == nil {
		return "absent"
	}
	return *p
}
