package backtest

import (
	"math"
)

// maxDrawdown finds the largest peak-to-trough decline of the balance
// series, with the running peak seeded at initial.
func maxDrawdown(initial float64, balances []float64) float64 {
	var maxDD float64
	peak := initial

	for _, b := range balances {
		if b > peak {
			peak = b
		}
		if peak > 0 {
			dd := (peak - b) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}

// sharpeRatio computes mean/stddev of per-bar simple returns, annualized
// by √252. The population standard deviation is used; fewer than two
// balances or a stddev below 1e-9 yields 0.
func sharpeRatio(balances []float64) float64 {
	if len(balances) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(balances)-1)
	for i := 1; i < len(balances); i++ {
		if balances[i-1] > 0 {
			returns = append(returns, (balances[i]-balances[i-1])/balances[i-1])
		}
	}
	if len(returns) == 0 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)))

	if stdDev <= 1e-9 {
		return 0
	}

	// Annualize (assuming ~252 trading days)
	return mean / stdDev * math.Sqrt(252)
}
