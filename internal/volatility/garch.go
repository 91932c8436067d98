// Package volatility estimates forward-looking volatility from return series.
package volatility

import "math"

// GARCH(1,1) coefficients. They are fixed constants typical for daily asset
// returns, not maximum-likelihood estimates.
const (
	Alpha = 0.05 // reaction to the latest shock
	Beta  = 0.90 // persistence of variance
)

// TradingDays is the number of trading sessions used to annualize daily volatility.
const TradingDays = 252

// LogReturns returns ln(p[i]/p[i-1]) for consecutive prices. Fewer than two
// prices yield an empty slice.
func LogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}
	return returns
}

// GARCH returns the one-step-ahead volatility (standard deviation) of a return
// series. The long-run variance is the sample variance and
// omega = variance·(1−α−β); the recursion starts at the sample variance and
// runs once per return. An empty series yields 0.
func GARCH(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	omega := variance * (1 - Alpha - Beta)
	sigma2 := variance
	for _, r := range returns {
		shock := r - mean
		sigma2 = omega + Alpha*shock*shock + Beta*sigma2
	}

	if sigma2 <= 0 || math.IsNaN(sigma2) {
		return 0
	}
	return math.Sqrt(sigma2)
}

// Annualize scales a daily volatility to a yearly one.
func Annualize(daily float64) float64 {
	return daily * math.Sqrt(TradingDays)
}
