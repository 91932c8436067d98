package backtest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/core"
)

// HistoryProvider defines the interface for fetching historical candles
type HistoryProvider interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Candle, error)
}

// Backtester replays a Decider against historical data
type Backtester struct {
	provider HistoryProvider
	logger   *zap.Logger
}

// New creates a new Backtester with the given history provider
func New(provider HistoryProvider, logger ...*zap.Logger) *Backtester {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Backtester{
		provider: provider,
		logger:   l,
	}
}

// Run fetches daily history for symbol and simulates d over it
func (b *Backtester) Run(ctx context.Context, d Decider, symbol string, start, end time.Time) (*Result, error) {
	candles, err := b.provider.FetchHistory(ctx, symbol, start, end, "1d")
	if err != nil {
		return nil, err
	}

	if len(candles) == 0 {
		return nil, core.ErrNoData
	}

	res, err := simulate(ctx, candles, d)
	if err != nil {
		return nil, err
	}
	res.Symbol = symbol
	res.StartDate = start
	res.EndDate = end

	b.logger.Debug("backtest complete",
		zap.String("symbol", symbol),
		zap.String("strategy", res.Strategy),
		zap.Int("candles", len(candles)),
		zap.Int("trades", res.Stats.TotalTrades),
		zap.Float64("return", res.Stats.TotalReturn),
	)
	return res, nil
}

// Simulate replays d over candles with full-capital switching between cash
// and a single long position. Histories shorter than MinCandles produce a
// zeroed result. The output depends only on the inputs.
func Simulate(candles []core.Candle, d Decider) *Result {
	res, _ := simulate(context.Background(), candles, d)
	return res
}

func simulate(ctx context.Context, candles []core.Candle, d Decider) (*Result, error) {
	res := &Result{}
	if n, ok := d.(interface{ Name() string }); ok {
		res.Strategy = n.Name()
	}
	if len(candles) < MinCandles {
		return res, nil
	}

	cash := InitialCapital
	var holdings, entryPrice float64
	var open *Trade

	for i := StartIndex; i < len(candles); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bar := candles[i]
		price := bar.Close

		switch d.Decide(candles[:i+1]) {
		case core.ActionBuy:
			if cash > 0 && price > 0 {
				holdings = cash / price
				cash = 0
				entryPrice = price
				res.Stats.TotalTrades++
				open = &Trade{EntryTime: bar.Time, EntryPrice: price}
			}
		case core.ActionSell:
			if holdings > 0 {
				if price > entryPrice {
					res.Stats.WinningTrades++
				}
				cash = holdings * price
				holdings = 0
				res.Stats.TotalTrades++
				if open != nil {
					res.Trades = append(res.Trades, closeTrade(*open, bar.Time, price))
					open = nil
				}
			}
		}

		res.Balances = append(res.Balances, cash+holdings*price)
	}

	last := candles[len(candles)-1]
	if open != nil {
		res.Trades = append(res.Trades, closeTrade(*open, time.Time{}, last.Close))
	}

	final := cash + holdings*last.Close
	res.Stats.FinalBalance = final
	res.Stats.TotalReturn = (final - InitialCapital) / InitialCapital
	res.Stats.MaxDrawdown = maxDrawdown(InitialCapital, res.Balances)
	res.Stats.SharpeRatio = sharpeRatio(res.Balances)

	return res, nil
}

func closeTrade(t Trade, exitTime time.Time, exitPrice float64) Trade {
	t.ExitTime = exitTime
	t.ExitPrice = exitPrice
	if t.EntryPrice > 0 {
		t.Return = (exitPrice - t.EntryPrice) / t.EntryPrice
	}
	return t
}
