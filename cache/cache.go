// Package cache provides the in-process TTL cache used for web search
// results and embedding reuse.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/voiceshop/assistant/config"
)

// Cache defines the common interface for L1 caches.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Purge()
}

type ttlCache struct {
	c *gocache.Cache
}

// NewTTL creates a TTL cache with a default expiry and a background
// cleanup sweep.
func NewTTL(defaultTTL, cleanup time.Duration) Cache {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &ttlCache{c: gocache.New(defaultTTL, cleanup)}
}

// NewFromConfig builds the cache from the service configuration.
func NewFromConfig(cfg config.CacheConfig) Cache {
	return NewTTL(
		time.Duration(cfg.DefaultTTLSeconds)*time.Second,
		time.Duration(cfg.CleanupSeconds)*time.Second,
	)
}

func (t *ttlCache) Get(key string) (any, bool) {
	return t.c.Get(key)
}

func (t *ttlCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	t.c.Set(key, value, ttl)
}

func (t *ttlCache) Purge() {
	t.c.Flush()
}
