package backtest

import (
	"time"

	"github.com/newthinker/tradebot/internal/core"
)

const (
	// InitialCapital is the starting cash of every simulation.
	InitialCapital = 10000.0
	// MinCandles is the shortest history that is simulated at all.
	MinCandles = 100
	// StartIndex is the first bar at which decisions are taken.
	StartIndex = 60
)

// Decider maps a trailing candle history to an action for its last bar.
type Decider interface {
	Decide(history []core.Candle) core.Action
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(history []core.Candle) core.Action

// Decide calls f(history).
func (f DeciderFunc) Decide(history []core.Candle) core.Action {
	return f(history)
}

// Result holds the complete backtest output
type Result struct {
	Strategy  string
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Trades    []Trade
	Balances  []float64 // account value after each simulated bar
	Stats     Stats
}

// Trade is one round trip from a buy to the following sell.
type Trade struct {
	EntryTime  time.Time
	ExitTime   time.Time // zero if position still open
	EntryPrice float64
	ExitPrice  float64 // last close if position still open
	Return     float64 // fractional return
}

// Stats holds performance statistics
type Stats struct {
	TotalReturn   float64 // (final - initial) / initial
	SharpeRatio   float64 // annualized, on per-bar balance returns
	MaxDrawdown   float64 // largest peak-to-trough decline, in [0, 1]
	TotalTrades   int     // buy and sell executions
	WinningTrades int     // sells above the preceding entry price
	FinalBalance  float64
}

// WinRate is the percentage of closed round trips that were profitable.
func (s Stats) WinRate() float64 {
	sells := s.TotalTrades / 2
	if sells == 0 {
		return 0
	}
	return float64(s.WinningTrades) / float64(sells) * 100
}

// IsWin returns true if the trade was profitable
func (t Trade) IsWin() bool {
	return t.ExitPrice > t.EntryPrice
}

// IsClosed returns true if the trade has an exit
func (t Trade) IsClosed() bool {
	return !t.ExitTime.IsZero()
}
