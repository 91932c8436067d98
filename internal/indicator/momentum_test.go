package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		check  func(t *testing.T, v float64)
	}{
		{"increasing", ramp(40, 100, 1), func(t *testing.T, v float64) { assert.Greater(t, v, 70.0) }},
		{"decreasing", ramp(40, 100, -1), func(t *testing.T, v float64) { assert.Less(t, v, 30.0) }},
		{"too short", ramp(14, 100, 1), func(t *testing.T, v float64) { assert.Equal(t, 50.0, v) }},
		{"flat", flat(40, 100), func(t *testing.T, v float64) { assert.Equal(t, 50.0, v) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := RSI(tt.prices, 14)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
			tt.check(t, v)
		})
	}
}

func TestRSI_MixedSeries(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + 5*math.Sin(float64(i)/3)
	}
	v := RSI(prices, 14)
	assert.Greater(t, v, 0.0)
	assert.Less(t, v, 100.0)
}

func TestAdaptiveRSI(t *testing.T) {
	short := ramp(25, 100, 1)
	assert.Equal(t, RSI(short, 14), AdaptiveRSI(short, 14))

	up := ramp(80, 100, 0.5)
	assert.Greater(t, AdaptiveRSI(up, 14), 70.0)

	down := ramp(80, 200, -0.5)
	assert.Less(t, AdaptiveRSI(down, 14), 30.0)
}

func TestMACD(t *testing.T) {
	t.Run("flat series is near zero", func(t *testing.T) {
		m, s := MACD(flat(100, 50))
		assert.InDelta(t, 0, m, 0.01)
		assert.InDelta(t, 0, s, 0.01)
	})

	t.Run("too short", func(t *testing.T) {
		m, s := MACD(ramp(25, 10, 1))
		assert.Equal(t, 0.0, m)
		assert.Equal(t, 0.0, s)
	})

	t.Run("uptrend is positive", func(t *testing.T) {
		m, s := MACD(ramp(100, 10, 1))
		assert.Greater(t, m, 0.0)
		assert.Greater(t, s, 0.0)
	})

	t.Run("downtrend is negative", func(t *testing.T) {
		m, _ := MACD(ramp(100, 200, -1))
		assert.Less(t, m, 0.0)
	})
}
