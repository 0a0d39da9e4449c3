// Package assistant assembles the shopping query pipeline from its
// configured providers and exposes it as a client plus an MCP tool server.
package assistant

import (
	"context"
	"fmt"

	"github.com/voiceshop/assistant/cache"
	"github.com/voiceshop/assistant/catalog"
	"github.com/voiceshop/assistant/common/httpx"
	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/embedding"
	"github.com/voiceshop/assistant/fusion"
	"github.com/voiceshop/assistant/llm"
	"github.com/voiceshop/assistant/orchestrator"
	"github.com/voiceshop/assistant/planner"
	"github.com/voiceshop/assistant/post"
	"github.com/voiceshop/assistant/router"
	"github.com/voiceshop/assistant/schema"
	"github.com/voiceshop/assistant/vectordb"
	"github.com/voiceshop/assistant/websearch"
)

// Client is the assembled pipeline plus the handles needed to tear it down.
type Client struct {
	cfg   *config.Config
	orch  *orchestrator.Orchestrator
	store vectordb.VectorStore
	index *catalog.Index
	web   *websearch.Searcher
}

// NewClient validates cfg, connects the external collaborators and wires
// the pipeline stages together.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	llmProvider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}
	embedder, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	store, err := vectordb.NewStore(ctx, cfg.VectorDB)
	if err != nil {
		return nil, err
	}
	index := catalog.NewIndex(embedder, store, cfg.Retrieval)

	hc := httpx.NewFromConfig(&cfg.HTTP)
	web, err := websearch.New(cfg.WebSearch, hc, cache.NewFromConfig(cfg.Cache))
	if err != nil {
		store.Close()
		return nil, err
	}

	synth, err := orchestrator.NewLLMSynthesizer(llmProvider, cfg.Answer)
	if err != nil {
		store.Close()
		return nil, err
	}

	orch := &orchestrator.Orchestrator{
		Router:    router.NewRouter(cfg.Router, llmProvider),
		Planner:   planner.New(cfg.Planner, llmProvider),
		Catalog:   index,
		Post:      post.NewEngine(cfg.Retrieval),
		Merger:    fusion.NewMerger(cfg.Merge),
		Synth:     synth,
		Retrieval: cfg.Retrieval,
	}
	if web != nil {
		orch.Web = web
	}

	logger.Infof("assistant: pipeline ready (vectordb=%s websearch=%s router=%s)",
		cfg.VectorDB.Provider, cfg.WebSearch.Provider, cfg.Router.Provider)
	return &Client{cfg: cfg, orch: orch, store: store, index: index, web: web}, nil
}

// Query runs one natural-language query through the pipeline.
func (c *Client) Query(ctx context.Context, query string) (schema.Response, error) {
	return c.orch.Run(ctx, query)
}

// CatalogSearch exposes filtered catalog retrieval for the catalog-search
// tool, bypassing routing and merge. Constraints are optional.
func (c *Client) CatalogSearch(ctx context.Context, query string, constraints schema.Constraints, topK int) ([]schema.RankedProduct, error) {
	if topK <= 0 {
		topK = c.cfg.Retrieval.TopK
	}
	raw, err := c.index.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	cfg := c.cfg.Retrieval
	cfg.TopK = topK
	ranked := post.NewEngine(cfg).Process(raw, constraints)
	out := make([]schema.RankedProduct, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Ranked())
	}
	return out, nil
}

// WebSearch exposes the cached live search for the web-search tool.
// Returns nil when live search is disabled.
func (c *Client) WebSearch(ctx context.Context, query string) ([]schema.WebResult, error) {
	if c.web == nil {
		return nil, fmt.Errorf("%w: live search disabled", schema.ErrServiceUnavailable)
	}
	return c.web.Search(ctx, query)
}

// Close releases external connections.
func (c *Client) Close() error {
	return c.store.Close()
}
