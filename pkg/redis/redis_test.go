package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsantana/radarbdr/pkg/config"
)

func TestNew_DisabledByDefault(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	client, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestCache_NoOpWhenDisabled(t *testing.T) {
	cache := NewCache(Disabled(), "radar")
	ctx := context.Background()

	var out []string
	found, err := cache.Get(ctx, CatalogKey(), &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, CatalogKey(), []string{"AAPL34"}, TTLHourly))
	assert.NoError(t, cache.Delete(ctx, CatalogKey()))
}

func TestRateLimiter_AllowsWhenDisabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "radar")

	allowed, remaining, err := limiter.Allow(context.Background(), BrapiRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, BrapiRateLimit.Limit, remaining)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, limiter.Wait(ctx, YahooRateLimit))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "catalog:bdr", CatalogKey())
	assert.Equal(t, "history:AAPL34:1y", HistoryKey("AAPL34", "1y"))
}
