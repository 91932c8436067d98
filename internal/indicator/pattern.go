package indicator

import (
	"math"

	"github.com/newthinker/tradebot/internal/core"
)

// Pattern names reported by DetectPattern.
const (
	PatternHammer           = "Hammer"
	PatternShootingStar     = "Shooting Star"
	PatternBullishEngulfing = "Bullish Engulfing"
	PatternBearishEngulfing = "Bearish Engulfing"
	PatternDoji             = "Doji"
)

// Pattern is a candlestick formation found on the most recent candle.
// Score is positive for bullish formations and negative for bearish ones.
type Pattern struct {
	Name  string
	Score float64
}

// Found reports whether a pattern was detected.
func (p Pattern) Found() bool {
	return p.Name != ""
}

// DetectPattern classifies the last candle. The first matching rule wins,
// checked in the order Hammer, Shooting Star, Bullish Engulfing, Bearish
// Engulfing, Doji. Fewer than 3 candles yields an empty Pattern.
func DetectPattern(candles []core.Candle) Pattern {
	n := len(candles)
	if n < 3 {
		return Pattern{}
	}

	c := candles[n-1]
	prev := candles[n-2]

	body := math.Abs(c.Close - c.Open)
	rng := c.High - c.Low
	upperShadow := c.High - math.Max(c.Open, c.Close)
	lowerShadow := math.Min(c.Open, c.Close) - c.Low

	var avgBody float64
	for _, k := range candles[n-3:] {
		avgBody += math.Abs(k.Close - k.Open)
	}
	avgBody /= 3

	bullish := c.Close > c.Open
	bearish := c.Close < c.Open

	switch {
	case lowerShadow > 2*body && upperShadow < 0.5*body && bullish:
		return Pattern{Name: PatternHammer, Score: 0.5}
	case upperShadow > 2*body && lowerShadow < 0.5*body && bearish:
		return Pattern{Name: PatternShootingStar, Score: -0.5}
	case prev.Close < prev.Open && bullish && c.Close > prev.Open && c.Open < prev.Close:
		return Pattern{Name: PatternBullishEngulfing, Score: 0.6}
	case prev.Close > prev.Open && bearish && c.Close < prev.Open && c.Open > prev.Close:
		return Pattern{Name: PatternBearishEngulfing, Score: -0.6}
	case body < 0.1*rng && rng > avgBody:
		return Pattern{Name: PatternDoji, Score: 0}
	}
	return Pattern{}
}
