package volatility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogReturns(t *testing.T) {
	returns := LogReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, math.Log(1.1), returns[0], 1e-12)
	assert.InDelta(t, math.Log(0.9), returns[1], 1e-12)

	assert.Empty(t, LogReturns([]float64{100}))
	assert.Empty(t, LogReturns(nil))
}

func TestGARCH_Empty(t *testing.T) {
	assert.Equal(t, 0.0, GARCH(nil))
}

func TestGARCH_Constant(t *testing.T) {
	// No dispersion means no variance to propagate.
	assert.InDelta(t, 0.0, GARCH([]float64{0.01, 0.01, 0.01, 0.01}), 1e-12)
}

func TestGARCH_NonNegative(t *testing.T) {
	series := [][]float64{
		{0.01},
		{0.02, -0.03, 0.015, -0.01, 0.04},
		{-0.1, 0.1, -0.1, 0.1},
	}
	for _, returns := range series {
		assert.GreaterOrEqual(t, GARCH(returns), 0.0)
	}
}

func TestGARCH_ReactsToLateShock(t *testing.T) {
	calm := make([]float64, 100)
	for i := range calm {
		if i%2 == 0 {
			calm[i] = 0.005
		} else {
			calm[i] = -0.005
		}
	}
	shocked := append(append([]float64{}, calm...), 0.08)

	assert.Greater(t, GARCH(shocked), GARCH(calm))
}

func TestAnnualize(t *testing.T) {
	assert.InDelta(t, 0.01*math.Sqrt(252), Annualize(0.01), 1e-12)
}
