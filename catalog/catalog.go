// Package catalog adapts the embedding index into the retrieval pipeline:
// it embeds the query text, over-fetches raw neighbors and normalizes the
// stored metadata into pipeline candidates.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/embedding"
	"github.com/voiceshop/assistant/metrics"
	"github.com/voiceshop/assistant/schema"
	"github.com/voiceshop/assistant/vectordb"
)

// Index searches the product catalog by semantic similarity.
type Index struct {
	embedder  embedding.Provider
	store     vectordb.VectorStore
	overfetch int
}

// NewIndex wires the embedder and vector store together.
func NewIndex(embedder embedding.Provider, store vectordb.VectorStore, cfg config.RetrievalConfig) *Index {
	of := cfg.OverfetchFactor
	if of <= 0 {
		of = config.DefaultOverfetchFactor
	}
	return &Index{embedder: embedder, store: store, overfetch: of}
}

// Search embeds query and returns up to topK*overfetch normalized
// candidates ordered by ascending distance. The deliberate over-fetch
// leaves the downstream constraint filter enough material to still fill
// topK slots after discarding non-matching candidates.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]schema.CatalogCandidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	vecs, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("catalog: embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("catalog: embedder returned no vector")
	}

	limit := topK * ix.overfetch
	if limit <= 0 {
		limit = config.DefaultTopK * config.DefaultOverfetchFactor
	}
	raw, err := ix.store.Search(ctx, vecs[0], limit)
	if err != nil {
		return nil, err
	}

	out := make([]schema.CatalogCandidate, 0, len(raw))
	for _, c := range raw {
		out = append(out, normalize(c))
	}
	metrics.ObserveRetriever("catalog", len(out))
	logger.Debugf("catalog: query %q fetched %d raw candidates (limit %d)", query, len(out), limit)
	return out, nil
}

// normalize converts legacy sentinel values into the nil representation of
// absence and trims stray whitespace from text fields. Nothing past this
// boundary ever sees a negative price or rating.
func normalize(c schema.CatalogCandidate) schema.CatalogCandidate {
	if c.Price != nil && *c.Price < 0 {
		c.Price = nil
	}
	if c.Rating != nil && *c.Rating < 0 {
		c.Rating = nil
	}
	c.Title = strings.TrimSpace(c.Title)
	c.Brand = strings.TrimSpace(c.Brand)
	c.Category = strings.TrimSpace(c.Category)
	c.Subcategory = strings.TrimSpace(c.Subcategory)
	return c
}
