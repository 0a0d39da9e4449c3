// Package embedding abstracts the text-embedding service used to embed
// queries against the product index.
package embedding

import (
	"context"
	"fmt"

	"github.com/voiceshop/assistant/config"
)

// Provider embeds texts into fixed-dimension vectors. The returned slice
// is parallel to the input.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// NewProvider builds a provider from configuration.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("embedding: unsupported provider %q", cfg.Provider)
	}
}
