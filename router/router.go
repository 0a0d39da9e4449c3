// Package router classifies incoming queries into intents and gates them
// against the shopping domain before any retrieval work is spent.
package router

import (
	"context"
	"strings"

	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/llm"
	"github.com/voiceshop/assistant/metrics"
	"github.com/voiceshop/assistant/schema"
)

// Router classifies a query into an Intent. Implementations must not fail
// the request: classification errors degrade into a low-confidence fallback
// intent, never into an error reaching the pipeline.
type Router interface {
	Route(ctx context.Context, query string) (schema.Intent, error)
}

// NewRouter builds the configured router. Provider "hybrid" wraps the LLM
// classifier with the rule-based one as fallback.
func NewRouter(cfg config.RouterConfig, provider llm.Provider) Router {
	rule := NewRuleBasedRouter(cfg)
	switch cfg.Provider {
	case "rule":
		return rule
	case "llm":
		return NewLLMRouter(cfg, provider)
	default:
		return NewHybridRouter(NewLLMRouter(cfg, provider), rule, cfg)
	}
}

// HybridRouter tries the primary classifier and falls back on error or on
// a parse-degraded result.
type HybridRouter struct {
	Primary  Router
	Fallback Router
	cfg      config.RouterConfig
}

func NewHybridRouter(primary, fallback Router, cfg config.RouterConfig) *HybridRouter {
	if fallback == nil {
		fallback = NewRuleBasedRouter(cfg)
	}
	return &HybridRouter{Primary: primary, Fallback: fallback, cfg: cfg}
}

func (r *HybridRouter) Route(ctx context.Context, query string) (schema.Intent, error) {
	if intent, ok := greetingFastPath(query, r.cfg.Greetings); ok {
		metrics.IncIntent(string(intent.Type))
		return intent, nil
	}
	if r.Primary != nil {
		intent, err := r.Primary.Route(ctx, query)
		if err == nil && !intent.ParseError {
			metrics.IncIntent(string(intent.Type))
			return intent, nil
		}
		logger.Warnf("router: primary classifier degraded (err=%v parse_error=%v), using fallback", err, intent.ParseError)
		metrics.IncClassifierFallback()
	}
	intent, err := r.Fallback.Route(ctx, query)
	if err == nil {
		metrics.IncIntent(string(intent.Type))
	}
	return intent, err
}

// greetingFastPath recognizes pure greetings without any model call. A
// query qualifies when its normalized form exactly equals a lexicon entry,
// or starts with one and carries at most three words total.
func greetingFastPath(query string, lexicon []string) (schema.Intent, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	q = strings.TrimRight(q, "!.?,")
	if q == "" {
		return schema.Intent{}, false
	}
	words := len(strings.Fields(q))
	for _, g := range lexicon {
		if q == g || (strings.HasPrefix(q, g+" ") && words <= 3) {
			return schema.Intent{Type: schema.IntentGreeting, Confidence: 1}, true
		}
	}
	return schema.Intent{}, false
}

// gate applies the domain allow-list to a classified product query. A
// product type naming nothing in the allow-list is out of domain; an empty
// product type passes, since the classifier could not pin the query down
// and retrieval may still find something.
func gate(intent schema.Intent, allowed []string) schema.Intent {
	if intent.Type != schema.IntentProductQuery {
		return intent
	}
	pt := strings.ToLower(strings.TrimSpace(intent.ProductType))
	if pt == "" {
		return intent
	}
	for _, a := range allowed {
		if strings.Contains(pt, strings.ToLower(a)) {
			return intent
		}
	}
	cat := strings.ToLower(intent.Constraints.Category)
	for _, a := range allowed {
		if cat != "" && strings.Contains(cat, strings.ToLower(a)) {
			return intent
		}
	}
	logger.Infof("router: product type %q outside domain allow-list", intent.ProductType)
	intent.Type = schema.IntentOutOfDomain
	return intent
}
