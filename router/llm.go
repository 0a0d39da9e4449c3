package router

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/llm"
	"github.com/voiceshop/assistant/schema"
)

const classifySystemPrompt = `You classify shopping assistant queries for a household products store.
Respond with a single JSON object and nothing else:
{
  "intent_type": "greeting" | "out_of_domain" | "product_query",
  "product_type": "<short noun phrase, empty if none>",
  "constraints": {
    "budget": <number or null>,
    "brand": "<string or empty>",
    "material": "<string or empty>",
    "category": "<string or empty>"
  },
  "needs_live_price": <true when the user asks about current/online/latest price>,
  "confidence": <0.0-1.0>
}
The store sells household cleaning and care products only. Queries about
anything else are out_of_domain.`

// LLMRouter asks the generation service for a structured classification.
type LLMRouter struct {
	provider llm.Provider
	cfg      config.RouterConfig
}

func NewLLMRouter(cfg config.RouterConfig, provider llm.Provider) *LLMRouter {
	return &LLMRouter{provider: provider, cfg: cfg}
}

func (r *LLMRouter) Route(ctx context.Context, query string) (schema.Intent, error) {
	if intent, ok := greetingFastPath(query, r.cfg.Greetings); ok {
		return intent, nil
	}
	raw, err := r.provider.Complete(ctx, classifySystemPrompt, query)
	if err != nil {
		return fallbackIntent(raw), err
	}
	intent, ok := parseIntent(raw)
	if !ok {
		logger.Warnf("router: %v: %.120s", schema.ErrClassificationParse, raw)
		return fallbackIntent(raw), nil
	}
	return gate(intent, r.cfg.AllowedCategories), nil
}

// parseIntent extracts an Intent from the model's output. Markdown fences
// are stripped first since models wrap JSON in them regardless of prompt.
func parseIntent(raw string) (schema.Intent, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if !gjson.Valid(s) {
		return schema.Intent{}, false
	}
	doc := gjson.Parse(s)
	typ := doc.Get("intent_type").String()

	var intentType schema.IntentType
	switch typ {
	case string(schema.IntentGreeting):
		intentType = schema.IntentGreeting
	case string(schema.IntentOutOfDomain):
		intentType = schema.IntentOutOfDomain
	case string(schema.IntentProductQuery):
		intentType = schema.IntentProductQuery
	default:
		return schema.Intent{}, false
	}

	intent := schema.Intent{
		Type:           intentType,
		ProductType:    strings.TrimSpace(doc.Get("product_type").String()),
		NeedsLivePrice: doc.Get("needs_live_price").Bool(),
		Confidence:     doc.Get("confidence").Float(),
		Raw:            raw,
	}
	if b := doc.Get("constraints.budget"); b.Exists() && b.Type == gjson.Number {
		intent.Constraints.Budget = schema.Float64Ptr(b.Float())
	}
	intent.Constraints.Brand = strings.TrimSpace(doc.Get("constraints.brand").String())
	intent.Constraints.Material = strings.TrimSpace(doc.Get("constraints.material").String())
	intent.Constraints.Category = strings.TrimSpace(doc.Get("constraints.category").String())
	return intent, true
}

// fallbackIntent is the deterministic recovery for malformed classifier
// output: a low-confidence product query with no constraints, so retrieval
// still gets a chance instead of the request dying at the gate.
func fallbackIntent(raw string) schema.Intent {
	return schema.Intent{
		Type:       schema.IntentProductQuery,
		Confidence: 0.2,
		ParseError: true,
		Raw:        raw,
	}
}
