// internal/app/pipeline.go
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/backtest"
	"github.com/newthinker/tradebot/internal/collector"
	"github.com/newthinker/tradebot/internal/config"
	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/news"
	"github.com/newthinker/tradebot/internal/options"
	"github.com/newthinker/tradebot/internal/predictor"
	"github.com/newthinker/tradebot/internal/report"
	"github.com/newthinker/tradebot/internal/sentiment"
	"github.com/newthinker/tradebot/internal/strategy"
	"github.com/newthinker/tradebot/internal/strategy/meanrev"
	"github.com/newthinker/tradebot/internal/strategy/quant"
)

const (
	// MinCandles is the shortest history a symbol is evaluated on.
	MinCandles = 60
	// LevelsPeriod is the support/resistance lookback.
	LevelsPeriod = 60
	// FallbackVolatility is used for Greeks when no volatility is known.
	FallbackVolatility = 0.30
)

// AnalyzeSymbol runs the full pipeline for one instrument and saves the
// resulting signals. A nil entry with nil error means the symbol was
// skipped; the reason is logged. Only context errors are returned.
func (a *App) AnalyzeSymbol(ctx context.Context, item config.WatchlistItem) (*report.Entry, error) {
	start := time.Now()
	asset := item.Type
	if asset == "" {
		asset = core.AssetStock
	}
	sym := collector.NormalizeSymbol(item.Symbol, asset)
	log := a.logger.With(zap.String("symbol", sym), zap.String("type", string(asset)))

	log.Debug("analyzing")

	end := a.now()
	from := end.AddDate(0, 0, -a.cfg.Analysis.HistoryDays)
	candles, err := a.collectors.ForAsset(asset).FetchHistory(ctx, sym, from, end, "1d")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("history unavailable", zap.Error(err))
		a.fail("history")
		return nil, nil
	}
	if len(candles) < MinCandles {
		log.Info("insufficient data", zap.Int("candles", len(candles)))
		a.fail("insufficient_data")
		return nil, nil
	}
	closes := core.Closes(candles)

	bt := backtest.Simulate(candles, meanrev.New())
	if a.metrics != nil {
		a.metrics.RecordBacktest("ok")
	}

	fund, err := a.collectors.Fundamentals(ctx, sym)
	if err != nil {
		log.Debug("no fundamentals", zap.Error(err))
	}
	var onChain core.OnChainData
	if asset != core.AssetStock {
		if onChain, err = a.collectors.OnChain(ctx, sym); err != nil {
			log.Debug("no on-chain data", zap.Error(err))
		}
	}

	score := a.headlineSentiment(ctx, sym, log)

	model, err := a.snapshotModel(ctx, sym, closes)
	if err != nil {
		log.Warn("model unavailable, using defaults", zap.Error(err))
		model = predictor.NewWithRate(a.cfg.Model.LearningRate)
	}

	actx := strategy.AnalysisContext{
		Symbol:       sym,
		AssetType:    asset,
		Candles:      candles,
		Sentiment:    score,
		Fundamentals: fund,
		OnChain:      onChain,
		Levels:       indicator.IdentifyLevels(closes, LevelsPeriod),
		Predictor:    model,
		Now:          a.now(),
	}
	signals, err := a.strategies.Analyze(ctx, actx)
	if err != nil {
		return nil, err
	}
	if len(signals) == 0 {
		log.Warn("no strategy produced a signal")
		a.fail("strategy")
		return nil, nil
	}

	primary := signals[0]
	for i := range signals {
		signals[i] = AnnotateGreeks(signals[i], closes[len(closes)-1], a.riskFreeRate())
		if _, err := a.signals.Save(ctx, signals[i]); err != nil {
			log.Error("saving signal", zap.Error(err))
		}
		if signals[i].Strategy == quant.Name {
			primary = signals[i]
		}
		if a.metrics != nil {
			a.metrics.RecordSignal(signals[i].Strategy, string(signals[i].Action), signals[i].Regime)
		}
	}

	if a.cfg.Model.Persist && a.models != nil {
		if err := a.models.Save(ctx, sym, model); err != nil {
			log.Warn("saving model", zap.Error(err))
		}
	}

	if a.metrics != nil {
		a.metrics.RecordEvaluation(time.Since(start).Seconds())
	}
	log.Info("signal generated",
		zap.String("action", string(primary.Action)),
		zap.Float64("confidence", primary.Confidence),
		zap.String("regime", primary.Regime),
	)

	return &report.Entry{
		Symbol:    item.Symbol,
		Price:     closes[len(closes)-1],
		Sentiment: score,
		Signal:    primary,
		Backtest:  bt.Stats,
		History:   candles,
	}, nil
}

// headlineSentiment averages the sentiment of the symbol's headlines. No
// provider or no headlines gives 0.
func (a *App) headlineSentiment(ctx context.Context, symbol string, log *zap.Logger) float64 {
	if a.news == nil || a.sentiment == nil {
		return 0
	}
	items, err := a.news.Headlines(ctx, symbol)
	if err != nil {
		log.Debug("no headlines", zap.Error(err))
		return 0
	}
	titles := news.Titles(items)
	if len(titles) == 0 {
		return 0
	}
	sum := sentiment.Aggregate(ctx, a.sentiment, titles, log)
	log.Debug("headline sentiment",
		zap.Int("headlines", len(titles)),
		zap.Int("failed", sum.Failed),
		zap.Float64("score", sum.Score),
	)
	return sum.Score
}

// snapshotModel returns a private predictor for symbol: the stored state
// when a model store is set, trained walk-forward on the last
// model.train_bars bars.
func (a *App) snapshotModel(ctx context.Context, symbol string, closes []float64) (*predictor.Predictor, error) {
	base := predictor.NewWithRate(a.cfg.Model.LearningRate)
	if a.models != nil {
		stored, err := a.models.LoadOrNew(ctx, symbol, a.cfg.Model.LearningRate)
		if err != nil {
			return nil, err
		}
		base = stored
	}
	model := base.Clone()
	n := predictor.TrainWalkForward(model, closes, a.cfg.Model.TrainBars)
	a.logger.Debug("walk-forward training",
		zap.String("symbol", symbol),
		zap.Int("samples", n),
	)
	return model, nil
}

func (a *App) riskFreeRate() float64 {
	if a.cfg.Analysis.RiskFreeRate > 0 {
		return a.cfg.Analysis.RiskFreeRate
	}
	return quant.DefaultRiskFreeRate
}

func (a *App) fail(stage string) {
	if a.metrics != nil {
		a.metrics.RecordEvaluationFailure(stage)
	}
}

// AnnotateGreeks appends the overlay's delta and theta to the reason of a
// signal carrying an option overlay. Greeks use the overlay's volatility,
// or FallbackVolatility when it has none.
func AnnotateGreeks(sig core.Signal, price, riskFree float64) core.Signal {
	o, ok := sig.Option.Get()
	if !ok || price <= 0 {
		return sig
	}
	vol := o.Volatility
	if !(vol > 0) {
		vol = FallbackVolatility
	}
	t := float64(o.ExpiryDays) / 365
	g := options.CalculateGreeks(price, o.Strike, t, riskFree, vol, o.Type)
	sig.Reason += fmt.Sprintf(" [Delta: %.2f, Theta: %.2f]", g.Delta, g.Theta)
	return sig
}
