package reports

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered reports in Redis for a short TTL so repeated brief
// pulls do not recompute from the ledger. A nil Cache is a valid no-op: every
// lookup misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache builds a report cache. Returns nil when no client is configured.
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached payload for key, or (nil, false) on a miss. Redis
// failures degrade to a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("report cache read failed", "key", key, "error", err.Error())
		}
		return nil, false
	}
	return payload, true
}

// Set stores payload under key for the cache TTL. Failures are logged only.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("report cache write failed", "key", key, "error", err.Error())
	}
}

// Invalidate drops a cached report.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("report cache invalidate failed", "key", key, "error", err.Error())
	}
}
