// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/newthinker/tradebot/internal/backtest"
	"github.com/newthinker/tradebot/internal/collector"
	"github.com/newthinker/tradebot/internal/config"
	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/metrics"
	"github.com/newthinker/tradebot/internal/news"
	"github.com/newthinker/tradebot/internal/predictor"
	"github.com/newthinker/tradebot/internal/report"
	"github.com/newthinker/tradebot/internal/router"
	"github.com/newthinker/tradebot/internal/sentiment"
	"github.com/newthinker/tradebot/internal/storage/signal"
	"github.com/newthinker/tradebot/internal/strategy"
	"github.com/newthinker/tradebot/internal/strategy/meanrev"
)

// CycleHook receives the entries of every completed analysis cycle.
type CycleHook func(ctx context.Context, entries []report.Entry)

// App is the main application orchestrator
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	collectors *collector.Registry
	strategies *strategy.Engine
	news       news.Provider
	sentiment  sentiment.Analyzer
	models     *predictor.Store
	signals    signal.Store
	metrics    *metrics.Registry
	router     *router.Router
	now        func() time.Time

	mu       sync.RWMutex
	interval time.Duration
	hook     CycleHook
	running  bool
	cancel   context.CancelFunc
	closers  []func() error

	cycleMu sync.Mutex // held for the duration of one cycle
}

// New creates an App with empty registries. Use Build for a fully wired
// instance.
func New(cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Defaults()
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		collectors: collector.NewRegistry(logger),
		strategies: strategy.NewEngine(logger),
		sentiment:  sentiment.NewKeywordAnalyzer(),
		signals:    signal.NewMemoryStore(signal.DefaultMaxSize),
		now:        time.Now,
		interval:   cfg.Server.Interval,
	}
}

// RegisterCollector adds a collector to the app
func (a *App) RegisterCollector(c collector.Collector) {
	a.collectors.Register(c)
}

// RegisterStrategy adds a strategy to the app
func (a *App) RegisterStrategy(s strategy.Strategy) {
	a.strategies.Register(s)
}

// SetNews sets the headline provider. nil disables news.
func (a *App) SetNews(p news.Provider) {
	a.news = p
}

// SetSentiment sets the headline scorer.
func (a *App) SetSentiment(s sentiment.Analyzer) {
	a.sentiment = s
}

// SetModelStore enables loading predictor state per symbol.
func (a *App) SetModelStore(s *predictor.Store) {
	a.models = s
}

// SetSignalStore replaces the signal store.
func (a *App) SetSignalStore(s signal.Store) {
	a.signals = s
}

// SetMetrics enables metric recording.
func (a *App) SetMetrics(m *metrics.Registry) {
	a.metrics = m
}

// SetRouter enables notifications for the primary signal of every cycle.
func (a *App) SetRouter(r *router.Router) {
	a.router = r
}

// SetInterval sets the analysis interval
func (a *App) SetInterval(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.interval = d
}

// OnCycle registers a hook run after every cycle of Start.
func (a *App) OnCycle(h CycleHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hook = h
}

// Signals returns the signal store.
func (a *App) Signals() signal.Store {
	return a.signals
}

// Collectors returns the collector registry.
func (a *App) Collectors() *collector.Registry {
	return a.collectors
}

// Start runs an analysis cycle immediately and then every interval until
// ctx is cancelled or Stop is called.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("app already running")
	}
	if a.interval <= 0 {
		a.mu.Unlock()
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("analysis interval must be positive"))
	}
	a.running = true
	interval := a.interval

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	a.logger.Info("tradebot starting", zap.Duration("interval", interval))

	a.cycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("tradebot shutting down")
			return ctx.Err()
		case <-ticker.C:
			a.cycle(ctx)
		}
	}
}

// Stop stops the monitoring loop
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Running reports whether Start is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Trigger starts one analysis cycle in the background. It returns false
// without doing anything when a cycle is already running.
func (a *App) Trigger(ctx context.Context) bool {
	if !a.cycleMu.TryLock() {
		return false
	}
	go func() {
		defer a.cycleMu.Unlock()
		a.runCycle(ctx)
	}()
	return true
}

func (a *App) cycle(ctx context.Context) {
	a.cycleMu.Lock()
	defer a.cycleMu.Unlock()
	a.runCycle(ctx)
}

func (a *App) runCycle(ctx context.Context) {
	items, err := a.cfg.Symbols()
	if err != nil {
		a.logger.Error("loading symbols", zap.Error(err))
		return
	}
	entries, err := a.Run(ctx, items)
	if err != nil {
		a.logger.Warn("analysis cycle interrupted", zap.Error(err))
		return
	}

	a.Notify(ctx, entries)

	a.mu.RLock()
	hook := a.hook
	a.mu.RUnlock()
	if hook != nil {
		hook(ctx, entries)
	}
}

// Notify routes the primary signal of each entry to the notifiers. It is
// a no-op without a router.
func (a *App) Notify(ctx context.Context, entries []report.Entry) int {
	if a.router == nil || len(entries) == 0 {
		return 0
	}
	signals := make([]core.Signal, len(entries))
	for i, e := range entries {
		signals[i] = e.Signal
	}
	return a.router.RouteBatch(ctx, signals)
}

// Run analyses items in parallel, at most analysis.workers at a time, and
// returns one entry per symbol that produced a signal, in input order.
// Per-symbol failures are logged and skipped; only cancellation of ctx
// aborts the run.
func (a *App) Run(ctx context.Context, items []config.WatchlistItem) ([]report.Entry, error) {
	start := a.now()
	if a.metrics != nil {
		a.metrics.SetWatchlistSize(len(items))
	}

	results := make([]*report.Entry, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.cfg.Analysis.Workers))

	for i, item := range items {
		g.Go(func() error {
			entry, err := a.AnalyzeSymbol(gctx, item)
			if err != nil {
				return err
			}
			results[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]report.Entry, 0, len(items))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	elapsed := time.Since(start)
	if a.metrics != nil {
		a.metrics.RecordAnalysisCycle(elapsed.Seconds())
	}
	a.logger.Info("analysis cycle complete",
		zap.Int("symbols", len(items)),
		zap.Int("signals", len(entries)),
		zap.Duration("elapsed", elapsed),
	)
	return entries, nil
}

// Backtest replays the mean-reversion proxy over the symbol's daily history.
func (a *App) Backtest(ctx context.Context, symbol string, asset core.AssetType, from, to time.Time) (*backtest.Result, error) {
	if asset == "" {
		asset = core.AssetStock
	}
	sym := collector.NormalizeSymbol(symbol, asset)
	chain := a.collectors.ForAsset(asset)
	if chain.Len() == 0 {
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("no collector supports %s", asset))
	}

	res, err := backtest.New(chain, a.logger).Run(ctx, meanrev.New(), sym, from, to)
	if a.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		a.metrics.RecordBacktest(status)
	}
	return res, err
}
