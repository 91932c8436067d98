// Package regime labels the coarse market state of a price series.
package regime

import (
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/volatility"
)

// Regime is a coarse market-state label.
type Regime string

const (
	Unknown  Regime = "Unknown"
	HighVol  Regime = "HighVol"
	Bull     Regime = "Bull"
	Bear     Regime = "Bear"
	Sideways Regime = "Sideways"
)

const (
	// MinHistory is the shortest series that can be classified.
	MinHistory = 50
	// HighVolThreshold is the daily GARCH volatility above which the
	// market is treated as stressed.
	HighVolThreshold = 0.03
)

// Classify returns HighVol when daily GARCH volatility exceeds 3%, else Bull
// when price > SMA50 > SMA200, Bear when price < SMA50 < SMA200 and
// Sideways otherwise. SMA200 falls back to SMA50 with fewer than 200 prices.
func Classify(prices []float64) Regime {
	n := len(prices)
	if n < MinHistory {
		return Unknown
	}

	sma50 := indicator.LastSMA(prices, 50)
	sma200 := sma50
	if n >= 200 {
		sma200 = indicator.LastSMA(prices, 200)
	}
	price := prices[n-1]

	if volatility.GARCH(volatility.LogReturns(prices)) > HighVolThreshold {
		return HighVol
	}
	switch {
	case price > sma50 && sma50 > sma200:
		return Bull
	case price < sma50 && sma50 < sma200:
		return Bear
	}
	return Sideways
}
