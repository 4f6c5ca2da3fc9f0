package cache_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonotes/internal/server/adapters/cache"
	"gonotes/internal/server/config"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)

	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &config.RedisConfig{
		Host:           host,
		Port:           port,
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		PoolSize:       2,
		DefaultTTL:     time.Minute,
		KeyPrefix:      "test:",
	}

	c, err := cache.NewRedisCache(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, s
}

func TestRedisCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, s := newCache(t)

	require.NoError(t, c.Set(ctx, "notes:list", "[]", 0))

	raw, err := s.Get("test:notes:list")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	assert.Equal(t, time.Minute, s.TTL("test:notes:list"))

	value, err := c.Get(ctx, "notes:list")
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	require.NoError(t, c.Delete(ctx, "notes:list"))
	value, err = c.Get(ctx, "notes:list")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRedisCacheExplicitTTL(t *testing.T) {
	ctx := context.Background()
	c, s := newCache(t)

	require.NoError(t, c.Set(ctx, "k", "v", 5*time.Second))
	assert.Equal(t, 5*time.Second, s.TTL("test:k"))

	s.FastForward(6 * time.Second)
	value, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRedisCacheIncr(t *testing.T) {
	ctx := context.Background()
	c, s := newCache(t)

	first, err := c.Incr(ctx, "notes:list:version")
	require.NoError(t, err)
	second, err := c.Incr(ctx, "notes:list:version")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	value, err := c.Get(ctx, "notes:list:version")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
	assert.Zero(t, s.TTL("test:notes:list:version"))
}

func TestRedisCacheServerError(t *testing.T) {
	ctx := context.Background()
	c, s := newCache(t)

	s.SetError("ERR cache unavailable")
	_, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), cache.ErrorFailedToGet)

	err = c.Set(ctx, "k", "v", 0)
	assert.ErrorContains(t, err, cache.ErrorFailedToSet)

	_, err = c.Incr(ctx, "k")
	assert.ErrorContains(t, err, cache.ErrorFailedToIncr)
}

func TestNewRedisCacheConnectionFailure(t *testing.T) {
	cfg := &config.RedisConfig{
		Host:           "127.0.0.1",
		Port:           1,
		ConnectTimeout: 100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
	}

	c, err := cache.NewRedisCache(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), cache.ErrorFailedToConnect)
}
