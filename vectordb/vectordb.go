// Package vectordb abstracts the persistent vector index holding the
// product catalog. Providers return raw stored rows; field normalization
// (sentinel prices, absent ratings) happens in the catalog adapter.
package vectordb

import (
	"context"
	"fmt"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

// productFields is the metadata column set stored alongside each vector.
var productFields = []string{
	"id", "title", "brand", "category", "subcategory",
	"price", "rating", "features", "ingredients", "product_url", "image_url",
}

// VectorStore performs nearest-neighbor search over the product index.
// Results are ordered by ascending distance (lower = more similar).
type VectorStore interface {
	Search(ctx context.Context, vector []float32, limit int) ([]schema.CatalogCandidate, error)
	Close() error
}

// NewStore builds a store from configuration.
func NewStore(ctx context.Context, cfg config.VectorDBConfig) (VectorStore, error) {
	switch cfg.Provider {
	case "milvus":
		return newMilvusStore(ctx, cfg)
	case "pgvector":
		return newPGVectorStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("vectordb: unsupported provider %q", cfg.Provider)
	}
}
