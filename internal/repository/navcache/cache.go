// Package navcache caches executed navigation responses in the key-value
// store, keyed by the compiler's parameter hash.
package navcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/corpuslens/corpuslens/internal/db"
)

const keyPrefix = "corpuslens:nav_cache:"

// store is the consumer interface for the navigation cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache is a cache-aside layer over the corpus store. Identical
// navigation parameters hash to the same cache key, so a hit skips both
// compilation output execution and the embedding call.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a navigation cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Get returns the cached response payload for a parameter hash. A store
// failure is treated as a miss.
func (c *Cache) Get(ctx context.Context, paramHash string) ([]byte, bool) {
	data, err := c.store.Get(ctx, keyPrefix+paramHash)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read navigation cache",
				zap.String("hash", paramHash), zap.Error(err))
		}
		c.inc("miss")
		return nil, false
	}
	if len(data) == 0 {
		c.inc("miss")
		return nil, false
	}
	c.inc("hit")
	return data, true
}

// Put stores a response payload under a parameter hash. Failures are
// logged, not returned; caching is best effort.
func (c *Cache) Put(ctx context.Context, paramHash string, payload []byte) {
	if err := c.store.SetWithTTL(ctx, keyPrefix+paramHash, payload, c.ttl); err != nil {
		c.logger.Warn("Failed to write navigation cache",
			zap.String("hash", paramHash), zap.Error(err))
	}
}

// Invalidate removes a cached response.
func (c *Cache) Invalidate(ctx context.Context, paramHash string) error {
	if err := c.store.Del(ctx, keyPrefix+paramHash); err != nil {
		return fmt.Errorf("invalidate navigation cache: %w", err)
	}
	return nil
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
