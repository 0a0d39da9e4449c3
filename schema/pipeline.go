package schema

// State names a pipeline stage. Transitions only move forward; Greeting
// and OutOfDomain intents jump from StateRouted straight to StateAnswered.
type State string

const (
	StateStart     State = "start"
	StateRouted    State = "routed"
	StatePlanned   State = "planned"
	StateRetrieved State = "retrieved"
	StateMerged    State = "merged"
	StateAnswered  State = "answered"
	StateEnd       State = "end"
)

// PipelineContext is the single mutable carrier threaded through the
// orchestrator's stages. It is owned exclusively by one request's
// execution and never shared across requests. Each stage extends it;
// no stage reverts a prior stage's fields.
type PipelineContext struct {
	RequestID string
	Query     string
	State     State

	Intent Intent
	Plan   Plan

	Candidates []CatalogCandidate
	WebResults []WebResult
	Products   []RankedProduct

	Answer    string
	Citations Citations

	// Warnings collects non-fatal degradations (web search failure,
	// classifier parse fallback) for logging and diagnostics.
	Warnings []string
}

// Warn appends a non-fatal degradation note.
func (pc *PipelineContext) Warn(msg string) {
	pc.Warnings = append(pc.Warnings, msg)
}

// Response assembles the normalized terminal payload.
func (pc *PipelineContext) Response() Response {
	products := pc.Products
	if products == nil {
		products = []RankedProduct{}
	}
	cits := pc.Citations
	if cits.Catalog == nil {
		cits.Catalog = []string{}
	}
	if cits.Web == nil {
		cits.Web = []string{}
	}
	return Response{
		Query:     pc.Query,
		Answer:    pc.Answer,
		Products:  products,
		Citations: cits,
	}
}
