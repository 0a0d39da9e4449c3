// Package websearch provides the live web search collaborator. A single
// Searcher wraps a provider with a process-wide result cache and a
// minimum-interval rate limit so burst traffic cannot hammer the upstream
// API.
package websearch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/voiceshop/assistant/cache"
	"github.com/voiceshop/assistant/common/httpx"
	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/metrics"
	"github.com/voiceshop/assistant/schema"
)

// Provider executes a raw web search.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]schema.WebResult, error)
}

// Searcher is the cached, rate-limited front of a Provider.
type Searcher struct {
	provider   Provider
	cache      cache.Cache
	limiter    *rate.Limiter
	ttl        time.Duration
	maxResults int

	// mu serializes the cache-miss path so concurrent requests for the
	// same key share one outbound call instead of each hitting upstream.
	mu sync.Mutex
}

// New builds a Searcher from configuration. Provider "none" yields nil,
// letting the caller skip live search entirely. A nil store falls back to
// a private TTL cache sized from the websearch config.
func New(cfg config.WebSearchConfig, hc *httpx.Client, store cache.Cache) (*Searcher, error) {
	var p Provider
	switch cfg.Provider {
	case "serper":
		p = newSerper(cfg, hc)
	case "bing":
		p = newBing(cfg, hc)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("websearch: unsupported provider %q", cfg.Provider)
	}
	return NewWithProvider(p, cfg, store), nil
}

// NewWithProvider wraps an explicit provider; used by tests.
func NewWithProvider(p Provider, cfg config.WebSearchConfig, store cache.Cache) *Searcher {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = config.DefaultWebCacheTTL * time.Second
	}
	interval := time.Duration(cfg.MinIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = config.DefaultWebMinIntervalMs * time.Millisecond
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = config.DefaultWebMaxResults
	}
	if store == nil {
		store = cache.NewTTL(ttl, 10*time.Minute)
	}
	return &Searcher{
		provider:   p,
		cache:      store,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		ttl:        ttl,
		maxResults: maxResults,
	}
}

// Search returns normalized web results for query. Identical (query, max)
// pairs within the TTL window are served from cache without touching the
// provider or the rate limiter. The miss path runs in a single critical
// section per Searcher: the cache is re-checked under the lock, so of N
// concurrent identical requests only the first calls the provider and the
// rest read its cached result.
func (s *Searcher) Search(ctx context.Context, query string) ([]schema.WebResult, error) {
	key := fmt.Sprintf("%s|%d", query, s.maxResults)
	if v, ok := s.cache.Get(key); ok {
		metrics.IncWebCache("hit")
		return v.([]schema.WebResult), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache.Get(key); ok {
		metrics.IncWebCache("hit")
		return v.([]schema.WebResult), nil
	}
	metrics.IncWebCache("miss")

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: web search rate wait: %v", schema.ErrServiceUnavailable, err)
	}
	results, err := s.provider.Search(ctx, query, s.maxResults)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].Price == nil {
			results[i].Price = ExtractPrice(results[i].Title + " " + results[i].Snippet)
		}
	}
	s.cache.Set(key, results, s.ttl)
	metrics.ObserveRetriever("web", len(results))
	logger.Debugf("websearch: %q returned %d results", query, len(results))
	return results, nil
}
