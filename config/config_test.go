package config

import "testing"

func valid() *Config {
	c := &Config{}
	c.LLM.APIKey = "sk-test"
	c.VectorDB.Host = "localhost"
	c.VectorDB.Port = 19530
	c.WebSearch.APIKey = "serper-test"
	c.ApplyDefaults()
	return c
}

func TestDefaults(t *testing.T) {
	c := valid()
	if c.Retrieval.TopK != DefaultTopK {
		t.Errorf("top_k default = %d", c.Retrieval.TopK)
	}
	if c.Retrieval.OverfetchFactor != DefaultOverfetchFactor {
		t.Errorf("overfetch default = %d", c.Retrieval.OverfetchFactor)
	}
	if c.Merge.TitleThreshold != DefaultTitleThreshold {
		t.Errorf("title threshold default = %v", c.Merge.TitleThreshold)
	}
	if c.WebSearch.CacheTTLSeconds != DefaultWebCacheTTL {
		t.Errorf("web cache ttl default = %d", c.WebSearch.CacheTTLSeconds)
	}
	if c.Embedding.APIKey != "sk-test" {
		t.Error("embedding key should inherit the llm key")
	}
	if len(c.Router.Greetings) == 0 || len(c.Router.AllowedCategories) == 0 {
		t.Error("router lexicons must default")
	}
	if c.HTTP.Retry != 1 {
		t.Errorf("http retry default = %d, want 1", c.HTTP.Retry)
	}
}

func TestValidateOK(t *testing.T) {
	if err := valid().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejectsMissingLLMKey(t *testing.T) {
	c := valid()
	c.LLM.APIKey = ""
	c.Embedding.APIKey = ""
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing llm api_key")
	}
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	c := valid()
	c.Retrieval.Strategy = "random"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestValidateRejectsUnknownVectorDB(t *testing.T) {
	c := valid()
	c.VectorDB.Provider = "chroma"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unsupported vectordb provider")
	}
}

func TestValidatePGVectorNeedsDSNOrHost(t *testing.T) {
	c := valid()
	c.VectorDB.Provider = "pgvector"
	c.VectorDB.Host = ""
	c.VectorDB.DSN = ""
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for pgvector without dsn or host")
	}
	c.VectorDB.DSN = "postgres://u:p@localhost/db"
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateWebSearchNone(t *testing.T) {
	c := valid()
	c.WebSearch.Provider = "none"
	c.WebSearch.APIKey = ""
	if err := c.Validate(); err != nil {
		t.Fatalf("provider none must not require a key: %v", err)
	}
}
