// Package llm abstracts the chat-completion service used for intent
// classification, plan drafting and answer synthesis.
package llm

import (
	"context"
	"fmt"

	"github.com/voiceshop/assistant/config"
)

// Provider generates a completion for a system+user prompt pair.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewProvider builds a provider from configuration.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", cfg.Provider)
	}
}
