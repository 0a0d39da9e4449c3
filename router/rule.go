package router

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

// budgetRe matches "under $25", "below 25 dollars", "less than $25.50",
// "max $25" and similar spoken budget phrasings.
var budgetRe = regexp.MustCompile(`(?i)(?:under|below|less than|cheaper than|max|at most|up to)\s*\$?\s*([0-9]+(?:\.[0-9]{1,2})?)`)

// temporal phrasings that imply the user wants a current live price.
var livePriceKeywords = []string{
	"current price", "latest price", "price now", "online price",
	"today's price", "price today", "live price", "market price",
	"how much is it now", "check the price",
}

// RuleBasedRouter classifies queries with keyword heuristics only. It is
// the always-available fallback behind the model-backed classifier.
type RuleBasedRouter struct {
	cfg config.RouterConfig
}

func NewRuleBasedRouter(cfg config.RouterConfig) *RuleBasedRouter {
	return &RuleBasedRouter{cfg: cfg}
}

func (r *RuleBasedRouter) Route(_ context.Context, query string) (schema.Intent, error) {
	if intent, ok := greetingFastPath(query, r.cfg.Greetings); ok {
		return intent, nil
	}

	q := strings.ToLower(query)
	intent := schema.Intent{
		Type:       schema.IntentProductQuery,
		Confidence: 0.6,
	}

	// Domain check: a query mentioning none of the allowed category terms
	// and containing a clear non-domain product noun is rejected. Keeping
	// the heuristic permissive errs toward retrieval over refusal.
	if !mentionsDomain(q, r.cfg.AllowedCategories) && looksOffDomain(q) {
		intent.Type = schema.IntentOutOfDomain
		return intent, nil
	}

	if m := budgetRe.FindStringSubmatch(query); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			intent.Constraints.Budget = schema.Float64Ptr(v)
		}
	}
	for _, kw := range livePriceKeywords {
		if strings.Contains(q, kw) {
			intent.NeedsLivePrice = true
			break
		}
	}
	for _, cat := range r.cfg.AllowedCategories {
		if strings.Contains(q, strings.ToLower(cat)) {
			intent.ProductType = cat
			intent.Constraints.Category = cat
			break
		}
	}
	return intent, nil
}

func mentionsDomain(q string, allowed []string) bool {
	for _, a := range allowed {
		if strings.Contains(q, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// offDomainMarkers are product nouns the store plainly does not carry.
var offDomainMarkers = []string{
	"laptop", "phone", "camera", "drone", "motor", "boat", "car", "bike",
	"guitar", "console", "gpu", "cpu", "tv", "watch", "shoes", "jacket",
	"rc ", "video game", "headphones",
}

func looksOffDomain(q string) bool {
	for _, m := range offDomainMarkers {
		if strings.Contains(q, m) {
			return true
		}
	}
	return false
}
