package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/newthinker/tradebot/internal/cache"
	"github.com/newthinker/tradebot/internal/core"
)

// DefaultCacheTTL is used when NewCached gets a non-positive ttl.
const DefaultCacheTTL = 5 * time.Minute

// Cached wraps a collector with a cache.Service. History, fundamentals and
// on-chain responses are cached per symbol for ttl. Concurrent misses for the
// same key share one upstream call. Cache errors other than a miss are logged
// and the inner collector is used.
type Cached struct {
	inner  Collector
	cache  cache.Service
	ttl    time.Duration
	flight singleflight.Group
	logger *zap.Logger
}

// NewCached wraps inner with c.
func NewCached(inner Collector, c cache.Service, ttl time.Duration, logger ...*zap.Logger) *Cached {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{inner: inner, cache: c, ttl: ttl, logger: l}
}

func (c *Cached) Name() string {
	return c.inner.Name()
}

func (c *Cached) Supports(asset core.AssetType) bool {
	return c.inner.Supports(asset)
}

// Unwrap returns the wrapped collector.
func (c *Cached) Unwrap() Collector {
	return c.inner
}

func (c *Cached) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Candle, error) {
	key := fmt.Sprintf("history:%s:%s:%s:%s:%s", c.inner.Name(), symbol, interval,
		start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))

	return cachedFetch(ctx, c, key, func(ctx context.Context) ([]core.Candle, error) {
		return c.inner.FetchHistory(ctx, symbol, start, end, interval)
	})
}

// FetchFundamentals delegates to the inner collector when it supplies fundamentals.
func (c *Cached) FetchFundamentals(ctx context.Context, symbol string) (core.Fundamentals, error) {
	fc, ok := c.inner.(FundamentalCollector)
	if !ok {
		return core.Fundamentals{}, fmt.Errorf("%s: fundamentals not supported", c.inner.Name())
	}
	key := fmt.Sprintf("fundamentals:%s:%s", c.inner.Name(), symbol)
	return cachedFetch(ctx, c, key, func(ctx context.Context) (core.Fundamentals, error) {
		return fc.FetchFundamentals(ctx, symbol)
	})
}

// FetchOnChain delegates to the inner collector when it supplies on-chain data.
func (c *Cached) FetchOnChain(ctx context.Context, symbol string) (core.OnChainData, error) {
	oc, ok := c.inner.(OnChainCollector)
	if !ok {
		return core.OnChainData{}, fmt.Errorf("%s: on-chain data not supported", c.inner.Name())
	}
	key := fmt.Sprintf("onchain:%s:%s", c.inner.Name(), symbol)
	return cachedFetch(ctx, c, key, func(ctx context.Context) (core.OnChainData, error) {
		return oc.FetchOnChain(ctx, symbol)
	})
}

// cachedFetch serves key from the cache or runs fetch once for all
// concurrent callers. The shared fetch runs detached from any one caller's
// cancellation; a cancelled caller stops waiting without failing the rest.
func cachedFetch[T any](ctx context.Context, c *Cached, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := cache.GetJSON[T](ctx, c.cache, key)
	if err == nil {
		c.logger.Debug("cache hit", zap.String("key", key))
		return v, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		fresh, err := fetch(flightCtx)
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(flightCtx, c.cache, key, fresh, c.ttl); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
