package news

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/cache"
)

// Cached wraps a provider with a cache.Service keyed by symbol.
type Cached struct {
	provider Provider
	cache    cache.Service
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCached creates a cached news provider.
func NewCached(provider Provider, c cache.Service, ttl time.Duration, logger ...*zap.Logger) *Cached {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Cached{provider: provider, cache: c, ttl: ttl, logger: l}
}

func (p *Cached) Name() string { return p.provider.Name() }

// Headlines returns cached items or fetches from the underlying provider.
// Empty results are not cached.
func (p *Cached) Headlines(ctx context.Context, symbol string) ([]Item, error) {
	key := "news:" + p.provider.Name() + ":" + symbol

	items, err := cache.GetJSON[[]Item](ctx, p.cache, key)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		p.logger.Warn("news cache read failed", zap.String("key", key), zap.Error(err))
	}

	items, err = p.provider.Headlines(ctx, symbol)
	if err != nil || len(items) == 0 {
		return items, err
	}
	if err := cache.SetJSON(ctx, p.cache, key, items, p.ttl); err != nil {
		p.logger.Warn("news cache write failed", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}
