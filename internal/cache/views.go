// Package cache holds the optional redis-backed view-count cache. View counts
// are advisory, so a short TTL and silent misses are acceptable.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"evently/internal/config"
)

const viewKeyPrefix = "evently:views:"

type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache returns nil when no redis address is configured; all methods
// are nil-safe so callers never branch on the cache being present.
func NewViewCache(cfg config.RedisConfig) *ViewCache {
	if cfg.Addr == "" {
		return nil
	}
	ttl := cfg.ViewTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ViewCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: ttl,
	}
}

func (c *ViewCache) Get(ctx context.Context, uri string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, viewKeyPrefix+uri).Result()
	if err != nil {
		return 0, false
	}
	hits, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return hits, true
}

func (c *ViewCache) Set(ctx context.Context, uri string, hits int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, viewKeyPrefix+uri, strconv.FormatInt(hits, 10), c.ttl).Err()
}

func (c *ViewCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
