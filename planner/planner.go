// Package planner turns a classified intent into a retrieval plan: which
// sources to hit, which fields the answer needs, and how price conflicts
// between sources resolve.
package planner

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/llm"
	"github.com/voiceshop/assistant/schema"
)

var baseFields = []string{"title", "brand", "price", "rating", "product_url"}

// Planner builds a Plan for a product-query intent. Building never fails:
// malformed generated plans collapse to the deterministic default.
type Planner struct {
	provider llm.Provider
	delegate bool
}

func New(cfg config.PlannerConfig, provider llm.Provider) *Planner {
	return &Planner{provider: provider, delegate: cfg.DelegateToLLM && provider != nil}
}

// Build derives the plan from the intent. The catalog is always consulted;
// live search joins in only when the intent asks for a current price.
func (p *Planner) Build(ctx context.Context, intent schema.Intent) schema.Plan {
	plan := defaultPlan(intent)
	if !p.delegate {
		return plan
	}
	drafted, err := p.draft(ctx, intent)
	if err != nil {
		logger.Warnf("planner: draft failed, keeping deterministic plan: %v", err)
		return plan
	}
	return clamp(drafted, intent)
}

func defaultPlan(intent schema.Intent) schema.Plan {
	plan := schema.Plan{
		Sources:        []schema.Source{schema.SourceCatalog},
		FieldsNeeded:   append([]string(nil), baseFields...),
		ConflictPolicy: schema.PreferCatalog,
	}
	if intent.NeedsLivePrice {
		plan.Sources = append(plan.Sources, schema.SourceLive)
		plan.ConflictPolicy = schema.WebOverwritesCatalog
	}
	if intent.Constraints.Budget != nil && !contains(plan.FieldsNeeded, "price") {
		plan.FieldsNeeded = append(plan.FieldsNeeded, "price")
	}
	if intent.Constraints.Material != "" {
		plan.FieldsNeeded = append(plan.FieldsNeeded, "ingredients", "features")
	}
	return plan
}

const planSystemPrompt = `You draft a retrieval plan for a shopping query.
Respond with one JSON object only:
{"sources": ["catalog_search", "live_search"], "fields_needed": ["title", ...], "conflict_policy": "web_price_overwrites" | "prefer_private_price"}`

func (p *Planner) draft(ctx context.Context, intent schema.Intent) (schema.Plan, error) {
	raw, err := p.provider.Complete(ctx, planSystemPrompt, intent.Raw)
	if err != nil {
		return schema.Plan{}, err
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	if !gjson.Valid(s) {
		return schema.Plan{}, schema.ErrMalformedPlan
	}
	doc := gjson.Parse(s)
	var plan schema.Plan
	for _, src := range doc.Get("sources").Array() {
		switch src.String() {
		case string(schema.SourceCatalog):
			plan.Sources = append(plan.Sources, schema.SourceCatalog)
		case string(schema.SourceLive):
			plan.Sources = append(plan.Sources, schema.SourceLive)
		}
	}
	for _, f := range doc.Get("fields_needed").Array() {
		if f.String() != "" {
			plan.FieldsNeeded = append(plan.FieldsNeeded, f.String())
		}
	}
	plan.ConflictPolicy = schema.ConflictPolicy(doc.Get("conflict_policy").String())
	return plan, nil
}

// clamp forces the drafted plan back inside the deterministic envelope:
// the catalog source, the base field set and the conflict policy are
// non-negotiable. The policy follows live-search inclusion, never the
// draft, so a live-price intent always resolves conflicts toward the web.
func clamp(plan schema.Plan, intent schema.Intent) schema.Plan {
	def := defaultPlan(intent)
	if !plan.HasSource(schema.SourceCatalog) {
		plan.Sources = append([]schema.Source{schema.SourceCatalog}, plan.Sources...)
	}
	if intent.NeedsLivePrice && !plan.HasSource(schema.SourceLive) {
		plan.Sources = append(plan.Sources, schema.SourceLive)
	}
	if !intent.NeedsLivePrice {
		kept := plan.Sources[:0]
		for _, s := range plan.Sources {
			if s != schema.SourceLive {
				kept = append(kept, s)
			}
		}
		plan.Sources = kept
	}
	for _, f := range def.FieldsNeeded {
		if !contains(plan.FieldsNeeded, f) {
			plan.FieldsNeeded = append(plan.FieldsNeeded, f)
		}
	}
	plan.ConflictPolicy = def.ConflictPolicy
	return plan
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
