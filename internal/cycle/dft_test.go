package cycle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sine(n, period int, trend float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + trend*float64(i) + 5*math.Sin(2*math.Pi*float64(i)/float64(period))
	}
	return prices
}

func TestDetect_TooShort(t *testing.T) {
	assert.Equal(t, 0, Detect(sine(39, 10, 0)))
	assert.Equal(t, 0, Detect(nil))
}

func TestDetect_PureSine(t *testing.T) {
	assert.Equal(t, 20, Detect(sine(200, 20, 0)))
}

func TestDetect_IgnoresLinearTrend(t *testing.T) {
	assert.Equal(t, 25, Detect(sine(200, 25, 0.8)))
}

func TestDetect_FlatSeries(t *testing.T) {
	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = 50
	}
	assert.Equal(t, 0, Detect(flat))
}

func TestDetect_RangeBound(t *testing.T) {
	for _, n := range []int{40, 80, 300} {
		p := Detect(sine(n, 7, 0.1))
		assert.GreaterOrEqual(t, p, 5)
		assert.LessOrEqual(t, p, 60)
		assert.Less(t, p, n/2)
	}
}
