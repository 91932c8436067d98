package indicator

import (
	"math"

	"github.com/newthinker/tradebot/internal/core"
)

// ADXResult is the Average Directional Index with its directional
// indicators at the last bar. All values are in [0, 100].
type ADXResult struct {
	ADX     float64
	PlusDI  float64
	MinusDI float64
}

// ADX computes Wilder's Average Directional Index. It needs at least
// 2·period candles; shorter input yields zeros.
func ADX(candles []core.Candle, period int) ADXResult {
	var res ADXResult
	n := len(candles)
	if period <= 0 || n < 2*period {
		return res
	}

	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		highDiff := candles[i].High - candles[i-1].High
		lowDiff := candles[i-1].Low - candles[i].Low
		if highDiff > lowDiff && highDiff > 0 {
			plusDM[i] = highDiff
		}
		if lowDiff > highDiff && lowDiff > 0 {
			minusDM[i] = lowDiff
		}
		tr[i] = trueRange(candles, i)
	}

	var sTR, sPlus, sMinus float64
	for i := 1; i <= period; i++ {
		sTR += tr[i]
		sPlus += plusDM[i]
		sMinus += minusDM[i]
	}

	p := float64(period)
	dx := make([]float64, 0, n-period-1)
	for i := period + 1; i < n; i++ {
		sTR = sTR - sTR/p + tr[i]
		sPlus = sPlus - sPlus/p + plusDM[i]
		sMinus = sMinus - sMinus/p + minusDM[i]

		var pDI, mDI float64
		if sTR != 0 {
			pDI = 100 * sPlus / sTR
			mDI = 100 * sMinus / sTR
		}
		var dxVal float64
		if sum := pDI + mDI; sum != 0 {
			dxVal = 100 * math.Abs(pDI-mDI) / sum
		}
		dx = append(dx, dxVal)
		res.PlusDI, res.MinusDI = pDI, mDI
	}

	if len(dx) < period {
		return res
	}

	var adx float64
	for i := 0; i < period; i++ {
		adx += dx[i]
	}
	adx /= p
	for i := period; i < len(dx); i++ {
		adx = (adx*(p-1) + dx[i]) / p
	}
	res.ADX = adx
	return res
}
