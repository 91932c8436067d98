package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestADX(t *testing.T) {
	t.Run("strong uptrend", func(t *testing.T) {
		res := ADX(candlesFrom(ramp(60, 100, 1), 0.2), 14)
		assert.Greater(t, res.PlusDI, res.MinusDI)
		assert.Greater(t, res.ADX, 25.0)
		assert.LessOrEqual(t, res.ADX, 100.0)
	})

	t.Run("strong downtrend", func(t *testing.T) {
		res := ADX(candlesFrom(ramp(60, 200, -1), 0.2), 14)
		assert.Greater(t, res.MinusDI, res.PlusDI)
		assert.Greater(t, res.ADX, 25.0)
	})

	t.Run("too short", func(t *testing.T) {
		assert.Equal(t, ADXResult{}, ADX(candlesFrom(ramp(27, 100, 1), 0.2), 14))
	})
}
