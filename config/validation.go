package config

import (
	"fmt"
	"strings"
)

// Defaults mirrored from the service's historical tuning. Thresholds are
// surfaced in config so operators can tighten matching per catalog.
const (
	DefaultTopK              = 5
	DefaultOverfetchFactor   = 10
	DefaultStrategy          = "hybrid"
	DefaultBrandThreshold    = 0.45
	DefaultCategoryThreshold = 0.50
	DefaultTitleThreshold    = 0.55
	DefaultWebMaxResults     = 5
	DefaultWebCacheTTL       = 180
	DefaultWebMinIntervalMs  = 1000
	DefaultContextTokens     = 1600
)

// DefaultGreetings is the fast-path greeting lexicon.
var DefaultGreetings = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	"howdy", "greetings", "yo",
}

// DefaultAllowedCategories is the household-products domain allow-list.
var DefaultAllowedCategories = []string{
	"cleaner", "cleaning", "detergent", "soap", "spray", "wipe", "polish",
	"degreaser", "disinfectant", "freshener", "sponge", "brush", "mop",
	"laundry", "dish", "kitchen", "bathroom", "floor", "glass", "stainless",
	"household",
}

// ApplyDefaults fills zero-valued fields in place.
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "json"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 3
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 512
	}
	if c.LLM.TimeoutMs <= 0 {
		c.LLM.TimeoutMs = 15000
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = c.LLM.APIKey
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = c.LLM.BaseURL
	}
	if c.Embedding.TimeoutMs <= 0 {
		c.Embedding.TimeoutMs = 10000
	}

	if c.VectorDB.Provider == "" {
		c.VectorDB.Provider = "milvus"
	}
	if c.VectorDB.Collection == "" {
		c.VectorDB.Collection = "products"
	}
	if c.VectorDB.TimeoutMs <= 0 {
		c.VectorDB.TimeoutMs = 10000
	}

	if c.WebSearch.Provider == "" {
		c.WebSearch.Provider = "serper"
	}
	if c.WebSearch.MaxResults <= 0 {
		c.WebSearch.MaxResults = DefaultWebMaxResults
	}
	if c.WebSearch.CacheTTLSeconds <= 0 {
		c.WebSearch.CacheTTLSeconds = DefaultWebCacheTTL
	}
	if c.WebSearch.MinIntervalMs <= 0 {
		c.WebSearch.MinIntervalMs = DefaultWebMinIntervalMs
	}
	if c.WebSearch.TimeoutMs <= 0 {
		c.WebSearch.TimeoutMs = 8000
	}

	if len(c.Router.Greetings) == 0 {
		c.Router.Greetings = DefaultGreetings
	}
	if len(c.Router.AllowedCategories) == 0 {
		c.Router.AllowedCategories = DefaultAllowedCategories
	}
	if c.Router.Provider == "" {
		c.Router.Provider = "hybrid"
	}

	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = DefaultTopK
	}
	if c.Retrieval.OverfetchFactor <= 0 {
		c.Retrieval.OverfetchFactor = DefaultOverfetchFactor
	}
	if c.Retrieval.Strategy == "" {
		c.Retrieval.Strategy = DefaultStrategy
	}
	if c.Retrieval.BrandThreshold <= 0 {
		c.Retrieval.BrandThreshold = DefaultBrandThreshold
	}
	if c.Retrieval.CategoryThreshold <= 0 {
		c.Retrieval.CategoryThreshold = DefaultCategoryThreshold
	}

	if c.Merge.TitleThreshold <= 0 {
		c.Merge.TitleThreshold = DefaultTitleThreshold
	}

	if c.Answer.ContextTokenBudget <= 0 {
		c.Answer.ContextTokenBudget = DefaultContextTokens
	}

	if c.HTTP.TimeoutMs <= 0 {
		c.HTTP.TimeoutMs = 10000
	}
	// Idempotent reads retry at most once.
	if c.HTTP.Retry <= 0 {
		c.HTTP.Retry = 1
	}
	if c.HTTP.BackoffMinMs <= 0 {
		c.HTTP.BackoffMinMs = 200
	}
	if c.HTTP.BackoffMaxMs <= 0 {
		c.HTTP.BackoffMaxMs = 2000
	}
	if c.HTTP.MaxConsecutiveFailures <= 0 {
		c.HTTP.MaxConsecutiveFailures = 5
	}
	if c.HTTP.CircuitOpenSeconds <= 0 {
		c.HTTP.CircuitOpenSeconds = 30
	}

	if c.Cache.DefaultTTLSeconds <= 0 {
		c.Cache.DefaultTTLSeconds = 300
	}
	if c.Cache.CleanupSeconds <= 0 {
		c.Cache.CleanupSeconds = 600
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9402"
	}
}

// Validate checks cross-field consistency. Call after ApplyDefaults.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai":
	default:
		return fmt.Errorf("llm: unsupported provider %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm: api_key is required")
	}

	switch c.Embedding.Provider {
	case "openai":
	default:
		return fmt.Errorf("embedding: unsupported provider %q", c.Embedding.Provider)
	}

	switch c.VectorDB.Provider {
	case "milvus":
		if c.VectorDB.Host == "" {
			return fmt.Errorf("vectordb: milvus requires host")
		}
		if c.VectorDB.Port <= 0 {
			return fmt.Errorf("vectordb: milvus requires port")
		}
	case "pgvector":
		if c.VectorDB.DSN == "" && c.VectorDB.Host == "" {
			return fmt.Errorf("vectordb: pgvector requires dsn or host")
		}
	default:
		return fmt.Errorf("vectordb: unsupported provider %q", c.VectorDB.Provider)
	}

	switch c.WebSearch.Provider {
	case "serper", "bing", "none":
	default:
		return fmt.Errorf("websearch: unsupported provider %q", c.WebSearch.Provider)
	}
	if c.WebSearch.Provider != "none" && c.WebSearch.APIKey == "" {
		return fmt.Errorf("websearch: api_key is required for provider %q", c.WebSearch.Provider)
	}

	switch c.Router.Provider {
	case "llm", "rule", "hybrid":
	default:
		return fmt.Errorf("router: unsupported provider %q", c.Router.Provider)
	}

	switch c.Retrieval.Strategy {
	case "similarity", "rating_price", "hybrid":
	default:
		return fmt.Errorf("retrieval: unsupported strategy %q", c.Retrieval.Strategy)
	}
	if c.Retrieval.BrandThreshold > 1 || c.Retrieval.CategoryThreshold > 1 {
		return fmt.Errorf("retrieval: thresholds must be in (0, 1]")
	}
	if c.Merge.TitleThreshold > 1 {
		return fmt.Errorf("merge: title_threshold must be in (0, 1]")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unsupported level %q", c.Log.Level)
	}

	return nil
}
