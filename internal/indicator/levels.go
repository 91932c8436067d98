package indicator

import (
	"math"
	"sort"

	"github.com/newthinker/tradebot/internal/curvefit"
)

// Levels are the support and resistance prices of a trailing window.
type Levels struct {
	Support    float64
	Resistance float64
}

// IdentifyLevels returns the min and max over the trailing period prices.
func IdentifyLevels(prices []float64, period int) Levels {
	if len(prices) == 0 || period <= 0 {
		return Levels{}
	}
	start := max(0, len(prices)-period)

	lv := Levels{Support: math.Inf(1), Resistance: math.Inf(-1)}
	for _, p := range prices[start:] {
		lv.Support = math.Min(lv.Support, p)
		lv.Resistance = math.Max(lv.Resistance, p)
	}
	return lv
}

const extremaWindow = 5

// LocalExtrema returns the local maxima (or minima) inside the trailing
// period prices. A point qualifies when it is strictly above (below) its 5
// neighbours on each side. The result is ascending, with values within 1% of
// the previously kept value dropped. Fewer than 10 prices yields nil.
func LocalExtrema(prices []float64, period int, maxima bool) []float64 {
	if len(prices) < 10 {
		return nil
	}
	start := max(0, len(prices)-period)

	var found []float64
	for i := start + extremaWindow; i < len(prices)-extremaWindow; i++ {
		cur := prices[i]
		ok := true
		for k := 1; k <= extremaWindow && ok; k++ {
			l, r := prices[i-k], prices[i+k]
			if maxima {
				ok = l < cur && r < cur
			} else {
				ok = l > cur && r > cur
			}
		}
		if ok {
			found = append(found, cur)
		}
	}
	if len(found) == 0 {
		return nil
	}

	sort.Float64s(found)
	unique := []float64{found[0]}
	for _, v := range found[1:] {
		if v > unique[len(unique)-1]*1.01 {
			unique = append(unique, v)
		}
	}
	return unique
}

// ForecastLinear extrapolates a least-squares line horizon bars past the
// last sample. It falls back to the last price when the fit is singular.
func ForecastLinear(prices []float64, horizon int) float64 {
	return ForecastPoly(prices, horizon, 1)
}

// ForecastPoly extrapolates a least-squares polynomial of the given degree
// horizon bars past the last sample. It falls back to the last price when
// there are too few samples or the fit is singular.
func ForecastPoly(prices []float64, horizon, degree int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if len(prices) < degree+1 {
		return last(prices)
	}
	coeffs := curvefit.PolyFit(prices, degree)
	if len(coeffs) == 0 {
		return last(prices)
	}
	return curvefit.Eval(coeffs, float64(len(prices)-1+horizon))
}
