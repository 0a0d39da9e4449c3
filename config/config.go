package config

// Config is the root configuration for the assistant service.
type Config struct {
	Log       LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	LLM       LLMConfig        `json:"llm" yaml:"llm" mapstructure:"llm"`
	Embedding EmbeddingConfig  `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	VectorDB  VectorDBConfig   `json:"vectordb" yaml:"vectordb" mapstructure:"vectordb"`
	WebSearch WebSearchConfig  `json:"websearch" yaml:"websearch" mapstructure:"websearch"`
	Router    RouterConfig     `json:"router" yaml:"router" mapstructure:"router"`
	Planner   PlannerConfig    `json:"planner" yaml:"planner" mapstructure:"planner"`
	Retrieval RetrievalConfig  `json:"retrieval" yaml:"retrieval" mapstructure:"retrieval"`
	Merge     MergeConfig      `json:"merge" yaml:"merge" mapstructure:"merge"`
	Answer    AnswerConfig     `json:"answer" yaml:"answer" mapstructure:"answer"`
	HTTP      HTTPClientConfig `json:"http" yaml:"http" mapstructure:"http"`
	Cache     CacheConfig      `json:"cache" yaml:"cache" mapstructure:"cache"`
	Metrics   MetricsConfig    `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// LogConfig controls the zap-backed logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	// Encoding is json or console.
	Encoding string `json:"encoding" yaml:"encoding" mapstructure:"encoding"`
	// File enables rotated file output; empty logs to stderr only.
	File       string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty" mapstructure:"max_backups"`
}

// LLMConfig defines the language-model classification/generation service.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider" mapstructure:"provider"` // openai
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Model       string  `json:"model" yaml:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`
	TimeoutMs   int     `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" mapstructure:"timeout_ms"`
}

// EmbeddingConfig defines the query-embedding model.
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider" mapstructure:"provider"` // openai
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty" mapstructure:"dimensions"`
	TimeoutMs  int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" mapstructure:"timeout_ms"`
}

// VectorDBConfig defines the persistent vector index holding the product
// catalog. Provider selects the backend implementation.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider" mapstructure:"provider"` // milvus or pgvector
	Host       string `json:"host,omitempty" yaml:"host,omitempty" mapstructure:"host"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty" mapstructure:"port"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty" mapstructure:"database"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty" mapstructure:"collection"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	// DSN is used by the pgvector provider; when set it overrides
	// host/port/database/username/password.
	DSN       string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`
	TimeoutMs int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" mapstructure:"timeout_ms"`
}

// WebSearchConfig defines the live web search collaborator with its
// process-wide cache and rate limiter.
type WebSearchConfig struct {
	Provider        string `json:"provider" yaml:"provider" mapstructure:"provider"` // serper or bing
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	APIKey          string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	MaxResults      int    `json:"max_results,omitempty" yaml:"max_results,omitempty" mapstructure:"max_results"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty" mapstructure:"cache_ttl_seconds"`
	MinIntervalMs   int    `json:"min_interval_ms,omitempty" yaml:"min_interval_ms,omitempty" mapstructure:"min_interval_ms"`
	TimeoutMs       int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" mapstructure:"timeout_ms"`
}

// RouterConfig controls the domain gate and intent classifier.
type RouterConfig struct {
	// Greetings is the fast-path lexicon checked before any external call.
	Greetings []string `json:"greetings,omitempty" yaml:"greetings,omitempty" mapstructure:"greetings"`
	// AllowedCategories is the domain allow-list tested against the
	// classified product type (case-insensitive substring).
	AllowedCategories []string `json:"allowed_categories,omitempty" yaml:"allowed_categories,omitempty" mapstructure:"allowed_categories"`
	// Provider selects the classifier: llm, rule, or hybrid (llm with
	// rule-based fallback).
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty" mapstructure:"provider"`
}

// PlannerConfig controls the plan builder.
type PlannerConfig struct {
	// DelegateToLLM lets the generation service propose a plan; the
	// deterministic rules still clamp its output.
	DelegateToLLM bool `json:"delegate_to_llm,omitempty" yaml:"delegate_to_llm,omitempty" mapstructure:"delegate_to_llm"`
}

// RetrievalConfig tunes the hybrid retrieval engine.
type RetrievalConfig struct {
	TopK              int     `json:"top_k,omitempty" yaml:"top_k,omitempty" mapstructure:"top_k"`
	OverfetchFactor   int     `json:"overfetch_factor,omitempty" yaml:"overfetch_factor,omitempty" mapstructure:"overfetch_factor"`
	Strategy          string  `json:"strategy,omitempty" yaml:"strategy,omitempty" mapstructure:"strategy"` // similarity, rating_price, hybrid
	BrandThreshold    float64 `json:"brand_threshold,omitempty" yaml:"brand_threshold,omitempty" mapstructure:"brand_threshold"`
	CategoryThreshold float64 `json:"category_threshold,omitempty" yaml:"category_threshold,omitempty" mapstructure:"category_threshold"`
}

// MergeConfig tunes the cross-source merge.
type MergeConfig struct {
	TitleThreshold float64 `json:"title_threshold,omitempty" yaml:"title_threshold,omitempty" mapstructure:"title_threshold"`
}

// AnswerConfig tunes answer synthesis.
type AnswerConfig struct {
	// ContextTokenBudget caps the serialized product/web context handed to
	// the generation service.
	ContextTokenBudget int `json:"context_token_budget,omitempty" yaml:"context_token_budget,omitempty" mapstructure:"context_token_budget"`
}

// HTTPClientConfig tunes the shared outbound HTTP client.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" mapstructure:"timeout_ms"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty" mapstructure:"retry"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty" mapstructure:"backoff_min_ms"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty" mapstructure:"backoff_max_ms"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty" mapstructure:"host_allowlist"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty" mapstructure:"max_consecutive_failures"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty" mapstructure:"circuit_open_seconds"`
}

// CacheConfig tunes the in-process TTL cache.
type CacheConfig struct {
	DefaultTTLSeconds int `json:"default_ttl_seconds,omitempty" yaml:"default_ttl_seconds,omitempty" mapstructure:"default_ttl_seconds"`
	CleanupSeconds    int `json:"cleanup_seconds,omitempty" yaml:"cleanup_seconds,omitempty" mapstructure:"cleanup_seconds"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enable bool   `json:"enable,omitempty" yaml:"enable,omitempty" mapstructure:"enable"`
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty" mapstructure:"listen"`
}
