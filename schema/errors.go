package schema

import "errors"

// Pipeline error taxonomy. Each of these is recovered locally by the owning
// stage with a documented default output; none propagates to the caller as
// an unhandled fault. Only ErrIndexUnavailable is fatal, and it is kept
// distinct from "no results found".
var (
	// ErrClassificationParse marks malformed structured output from the
	// classifier. Recovered with a deterministic fallback intent.
	ErrClassificationParse = errors.New("classification output parse failed")

	// ErrRetrievalEmpty marks a retrieval where no candidate survived
	// filtering. Recovered with an empty product list plus guidance text.
	ErrRetrievalEmpty = errors.New("no candidates survived retrieval")

	// ErrServiceUnavailable marks an unreachable or timed-out external
	// service. Idempotent reads are retried once; otherwise the stage
	// degrades to partial results.
	ErrServiceUnavailable = errors.New("external service unavailable")

	// ErrMalformedPlan marks an unparsable generated plan. Recovered with
	// the deterministic default plan.
	ErrMalformedPlan = errors.New("malformed retrieval plan")

	// ErrIndexUnavailable is the single fatal condition: the embedding
	// index cannot be reached at all.
	ErrIndexUnavailable = errors.New("embedding index unavailable")
)
