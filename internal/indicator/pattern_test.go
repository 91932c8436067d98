package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newthinker/tradebot/internal/core"
)

func withLast(prev, last core.Candle) []core.Candle {
	filler := core.Candle{Open: 10, High: 10.2, Low: 9.8, Close: 10.05}
	return []core.Candle{filler, prev, last}
}

func TestDetectPattern(t *testing.T) {
	neutralPrev := core.Candle{Open: 10, High: 10.2, Low: 9.9, Close: 10.1}

	tests := []struct {
		name    string
		candles []core.Candle
		want    Pattern
	}{
		{
			name:    "hammer",
			candles: withLast(neutralPrev, core.Candle{Open: 10, High: 10.6, Low: 8.9, Close: 10.5}),
			want:    Pattern{Name: PatternHammer, Score: 0.5},
		},
		{
			name:    "shooting star",
			candles: withLast(neutralPrev, core.Candle{Open: 10.5, High: 11.6, Low: 9.9, Close: 10}),
			want:    Pattern{Name: PatternShootingStar, Score: -0.5},
		},
		{
			name: "bullish engulfing",
			candles: withLast(
				core.Candle{Open: 10, High: 10.1, Low: 8.9, Close: 9},
				core.Candle{Open: 8.8, High: 10.3, Low: 8.7, Close: 10.2},
			),
			want: Pattern{Name: PatternBullishEngulfing, Score: 0.6},
		},
		{
			name: "bearish engulfing",
			candles: withLast(
				core.Candle{Open: 9, High: 10.1, Low: 8.9, Close: 10},
				core.Candle{Open: 10.2, High: 10.3, Low: 8.7, Close: 8.8},
			),
			want: Pattern{Name: PatternBearishEngulfing, Score: -0.6},
		},
		{
			name:    "doji",
			candles: withLast(neutralPrev, core.Candle{Open: 10, High: 11, Low: 9, Close: 10.01}),
			want:    Pattern{Name: PatternDoji, Score: 0},
		},
		{
			name:    "too short",
			candles: []core.Candle{neutralPrev, neutralPrev},
			want:    Pattern{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectPattern(tt.candles)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.InDelta(t, tt.want.Score, got.Score, 1e-9)
		})
	}
}

func TestPattern_Found(t *testing.T) {
	assert.False(t, Pattern{}.Found())
	assert.True(t, Pattern{Name: PatternDoji}.Found())
}
