package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "test")
	cfg := ClientRateLimit("127.0.0.1")

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed, "disabled limiter allows everything")
	assert.Equal(t, cfg.Limit, remaining)
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	ctx := context.Background()

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
	assert.NoError(t, cache.Delete(ctx, "key"))
	n, err := cache.Flush(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetOrSet_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"20260108"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrSet(context.Background(), cache, DatesKey(), TTLShort, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"20260108"}, got)
	}
	assert.Equal(t, 2, calls, "pass-through calls the loader every time")
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "dates", DatesKey())
	assert.Equal(t, "ranking:20260108", RankingKey("20260108"))
	assert.Equal(t, "webcache:20260108", WebCacheKey("20260108"))

	c := NewCache(Disabled(), "briefing")
	assert.Equal(t, "briefing:cache:ranking:20260108", c.fullKey(RankingKey("20260108")))
}
