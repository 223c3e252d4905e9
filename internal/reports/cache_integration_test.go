//go:build integration

package reports

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revloop/pkg/testutil/containers"
)

func newIntegrationCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	rc := containers.NewRedisContainer(t)
	t.Cleanup(func() { rc.Terminate(context.Background()) })
	return NewCache(rc.Client, ttl, slog.New(slog.DiscardHandler))
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newIntegrationCache(t, time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "reports:stress-test")
	assert.False(t, ok, "empty cache misses")

	cache.Set(ctx, "reports:stress-test", []byte(`{"grade":"pass"}`))

	payload, ok := cache.Get(ctx, "reports:stress-test")
	require.True(t, ok)
	assert.JSONEq(t, `{"grade":"pass"}`, string(payload))
}

func TestCacheInvalidate(t *testing.T) {
	cache := newIntegrationCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "reports:daily-brief", []byte(`{}`))
	cache.Invalidate(ctx, "reports:daily-brief")

	_, ok := cache.Get(ctx, "reports:daily-brief")
	assert.False(t, ok)
}

func TestCacheExpires(t *testing.T) {
	cache := newIntegrationCache(t, time.Second)
	ctx := context.Background()

	cache.Set(ctx, "reports:stress-test", []byte(`{}`))
	time.Sleep(1500 * time.Millisecond)

	_, ok := cache.Get(ctx, "reports:stress-test")
	assert.False(t, ok, "entries expire at the TTL")
}
