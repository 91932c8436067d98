package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/core"
)

// Registry manages collectors in registration order. Lookups try them in
// that order and return the first usable answer.
type Registry struct {
	mu         sync.RWMutex
	collectors []Collector
	logger     *zap.Logger
}

// NewRegistry creates a new collector registry
func NewRegistry(logger ...*zap.Logger) *Registry {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Registry{logger: l}
}

// Register adds a collector. A collector with the same name is replaced in place.
func (r *Registry) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.collectors {
		if existing.Name() == c.Name() {
			r.collectors[i] = c
			return
		}
	}
	r.collectors = append(r.collectors, c)
}

// Get retrieves a collector by name
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.collectors {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// GetAll returns all registered collectors in registration order
func (r *Registry) GetAll() []Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Collector, len(r.collectors))
	copy(result, r.collectors)
	return result
}

// ForAsset returns a Chain over the collectors supporting asset.
func (r *Registry) ForAsset(asset core.AssetType) *Chain {
	var supported []Collector
	for _, c := range r.GetAll() {
		if c.Supports(asset) {
			supported = append(supported, c)
		}
	}
	return &Chain{collectors: supported, logger: r.logger}
}

// Fundamentals asks each FundamentalCollector in turn. When none succeeds the
// zero Fundamentals (Valid=false) is returned with the last error.
func (r *Registry) Fundamentals(ctx context.Context, symbol string) (core.Fundamentals, error) {
	var lastErr error = core.ErrNoData
	for _, c := range r.GetAll() {
		fc, ok := c.(FundamentalCollector)
		if !ok {
			continue
		}
		f, err := fc.FetchFundamentals(ctx, symbol)
		if err != nil {
			r.logger.Debug("fundamentals unavailable",
				zap.String("collector", fc.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			lastErr = err
			continue
		}
		if f.Valid {
			return f, nil
		}
	}
	return core.Fundamentals{}, core.WrapError(core.ErrCollectorFailed, lastErr)
}

// OnChain asks each OnChainCollector in turn.
func (r *Registry) OnChain(ctx context.Context, symbol string) (core.OnChainData, error) {
	var lastErr error = core.ErrNoData
	for _, c := range r.GetAll() {
		oc, ok := c.(OnChainCollector)
		if !ok {
			continue
		}
		d, err := oc.FetchOnChain(ctx, symbol)
		if err != nil {
			r.logger.Debug("on-chain data unavailable",
				zap.String("collector", oc.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			lastErr = err
			continue
		}
		if d.Valid {
			return d, nil
		}
	}
	return core.OnChainData{}, core.WrapError(core.ErrCollectorFailed, lastErr)
}

// Chain tries a fixed list of collectors in order. It satisfies
// backtest.HistoryProvider.
type Chain struct {
	collectors []Collector
	logger     *zap.Logger
}

// NewChain builds a chain from explicit collectors.
func NewChain(logger *zap.Logger, collectors ...Collector) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{collectors: collectors, logger: logger}
}

// Len returns the number of collectors in the chain.
func (c *Chain) Len() int {
	return len(c.collectors)
}

// FetchHistory returns the first non-empty history.
func (c *Chain) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Candle, error) {
	if len(c.collectors) == 0 {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("no collector for %s", symbol))
	}

	var errs []error
	for _, col := range c.collectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candles, err := col.FetchHistory(ctx, symbol, start, end, interval)
		if err != nil {
			c.logger.Warn("history fetch failed",
				zap.String("collector", col.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", col.Name(), err))
			continue
		}
		if len(candles) > 0 {
			return candles, nil
		}
	}

	if len(errs) == 0 {
		return nil, core.ErrNoData
	}
	return nil, core.WrapError(core.ErrCollectorFailed, errors.Join(errs...))
}
