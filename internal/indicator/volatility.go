package indicator

import (
	"math"
	"sort"

	"github.com/newthinker/tradebot/internal/core"
)

// BollingerBands holds the bands at the last bar.
type BollingerBands struct {
	Upper     float64
	Middle    float64
	Lower     float64
	Bandwidth float64 // (Upper-Lower)/Middle, 0 when Middle <= 0
}

// Bollinger computes SMA ± mult·stddev over the trailing period prices using
// the population standard deviation. Short input yields all zeros.
func Bollinger(prices []float64, period int, mult float64) BollingerBands {
	var bb BollingerBands
	if period <= 0 || len(prices) < period {
		return bb
	}

	middle, stdDev := meanStdDev(prices[len(prices)-period:])
	bb.Middle = middle
	bb.Upper = middle + mult*stdDev
	bb.Lower = middle - mult*stdDev
	if bb.Middle > 0 {
		bb.Bandwidth = (bb.Upper - bb.Lower) / bb.Middle
	}
	return bb
}

// trueRange of candle i against the previous close. The first candle uses
// its own high-low range.
func trueRange(candles []core.Candle, i int) float64 {
	hl := candles[i].High - candles[i].Low
	if i == 0 {
		return hl
	}
	prevClose := candles[i-1].Close
	return math.Max(hl, math.Max(
		math.Abs(candles[i].High-prevClose),
		math.Abs(candles[i].Low-prevClose),
	))
}

// ATR computes the Wilder-smoothed Average True Range. It returns 0 when
// there are not more than period candles.
func ATR(candles []core.Candle, period int) float64 {
	if period <= 0 || len(candles) <= period {
		return 0
	}

	var atr float64
	for i := 0; i < period; i++ {
		atr += trueRange(candles, i)
	}
	p := float64(period)
	atr /= p

	for i := period; i < len(candles); i++ {
		atr = (atr*(p-1) + trueRange(candles, i)) / p
	}
	return atr
}

// VolatilitySqueeze reports whether the current 20-period Bollinger
// bandwidth sits at or below the given percentile of the bandwidths seen
// over the last lookback bars.
func VolatilitySqueeze(prices []float64, lookback int, percentile float64) bool {
	const bbPeriod = 20
	if lookback <= 0 || len(prices) < lookback {
		return false
	}

	history := make([]float64, 0, lookback)
	for i := 0; i < lookback; i++ {
		end := len(prices) - 1 - i
		if end < bbPeriod {
			break
		}
		bb := Bollinger(prices[:end+1], bbPeriod, 2)
		if bb.Middle > 0 {
			history = append(history, bb.Bandwidth)
		}
	}
	if len(history) == 0 {
		return false
	}

	current := history[0]
	sort.Float64s(history)

	idx := int(float64(len(history)) * percentile)
	if idx >= len(history) {
		idx = len(history) - 1
	}
	return current <= history[idx]
}
