// Package retriever unifies the pipeline's two data sources behind one
// interface so the orchestrator can fan out over whatever the plan names.
package retriever

import (
	"context"

	"github.com/voiceshop/assistant/schema"
)

// CatalogRetriever searches the private product index.
type CatalogRetriever interface {
	Search(ctx context.Context, query string, topK int) ([]schema.CatalogCandidate, error)
}

// WebRetriever searches the live web.
type WebRetriever interface {
	Search(ctx context.Context, query string) ([]schema.WebResult, error)
}
