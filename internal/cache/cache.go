// Package cache is a fail-open Redis read-through cache. Keys are namespaced
// and versioned so a namespace can be invalidated with one INCR.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix  = "oku:"
	versionKey = keyPrefix + "ver:" // + namespace
	defaultTO  = 150 * time.Millisecond
)

// Namespaces shared between the handlers that fill them and the console
// mutations that invalidate them.
const (
	NSSuggest = "suggest"
	NSStats   = "stats"
)

type Cache struct {
	rdb     *redis.Client
	log     *zap.Logger
	shortTO time.Duration
	warned  atomic.Bool
}

// New returns a cache; a nil client gives a cache that always loads.
func New(rdb *redis.Client, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{rdb: rdb, log: log, shortTO: defaultTO}
}

func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// version reads the namespace version; failures fall back to v1.
func (c *Cache) version(ctx context.Context, ns string) int64 {
	ver, err := c.rdb.Get(ctx, versionKey+ns).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warnOnce("cache version read failed", err)
		}
		return 1
	}
	return ver
}

func (c *Cache) key(ctx context.Context, ns, k string) string {
	return fmt.Sprintf("%s%s:v%d:%s", keyPrefix, ns, c.version(ctx, ns), k)
}

// Remember returns the cached value for ns/key, or calls load and stores its
// result for ttl. Redis errors never fail the call.
func Remember[T any](ctx context.Context, c *Cache, ns, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	cctx, cancel := context.WithTimeout(ctx, c.shortTO)
	full := c.key(cctx, ns, key)
	raw, err := c.rdb.Get(cctx, full).Bytes()
	cancel()
	if err == nil {
		var v T
		if jerr := json.Unmarshal(raw, &v); jerr == nil {
			return v, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.warnOnce("cache get failed; bypassing", err)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	sctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()
	if err := c.rdb.SetEx(sctx, full, b, ttl).Err(); err != nil {
		c.warnOnce("cache set failed", err)
	}
	return v, nil
}

// BumpVersion invalidates every key of ns. Safe no-op without Redis.
func (c *Cache) BumpVersion(ctx context.Context, ns string) error {
	if !c.Enabled() {
		return nil
	}
	cctx, cancel := context.WithTimeout(ctx, c.shortTO)
	defer cancel()
	if err := c.rdb.Incr(cctx, versionKey+ns).Err(); err != nil {
		return fmt.Errorf("bump version failed: %w", err)
	}
	return nil
}

// warnOnce logs the first Redis failure of the process only.
func (c *Cache) warnOnce(msg string, err error) {
	if c.warned.CompareAndSwap(false, true) {
		c.log.Warn(msg+" (muted next)", zap.Error(err))
	}
}
