package post

import (
	"math"
	"sort"

	"github.com/voiceshop/assistant/schema"
)

// Rerank orders the filtered candidates by the configured strategy. The
// sort is stable in every strategy so equal keys preserve the index's
// original similarity order and repeated runs produce identical output.
func (e *Engine) Rerank(candidates []schema.CatalogCandidate) []schema.CatalogCandidate {
	out := make([]schema.CatalogCandidate, len(candidates))
	copy(out, candidates)

	switch e.cfg.Strategy {
	case "similarity":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Distance < out[j].Distance
		})
	case "rating_price":
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := ratingOrZero(out[i]), ratingOrZero(out[j])
			if ri != rj {
				return ri > rj
			}
			return priceOrInf(out[i]) < priceOrInf(out[j])
		})
	default: // hybrid
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Distance != out[j].Distance {
				return out[i].Distance < out[j].Distance
			}
			ri, rj := ratingOrZero(out[i]), ratingOrZero(out[j])
			if ri != rj {
				return ri > rj
			}
			return priceOrInf(out[i]) < priceOrInf(out[j])
		})
	}
	return out
}

// ratingOrZero treats an absent rating as the worst possible one.
func ratingOrZero(c schema.CatalogCandidate) float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

// priceOrInf treats an absent price as the most expensive one.
func priceOrInf(c schema.CatalogCandidate) float64 {
	if c.Price == nil {
		return math.Inf(1)
	}
	return *c.Price
}
