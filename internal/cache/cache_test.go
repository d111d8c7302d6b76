package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRemember_NilClientAlwaysLoads(t *testing.T) {
	c := cache.New(nil, nil)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a"}, nil
	}
	for i := 0; i < 2; i++ {
		v, err := cache.Remember(t.Context(), c, "suggest", "q", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, v)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, c.BumpVersion(t.Context(), "suggest"))
}

func TestRemember_FailsOpenWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 20 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	core, logs := observer.New(zapcore.WarnLevel)
	c := cache.New(rdb, zap.New(core))

	for i := 0; i < 3; i++ {
		v, err := cache.Remember(t.Context(), c, "stats", "k", time.Second, func(context.Context) (int, error) { return 42, nil })
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, logs.Len(), "warnings are muted after the first")
}

func TestRemember_LoadErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := cache.Remember(t.Context(), cache.New(nil, nil), "x", "y", time.Second, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}
