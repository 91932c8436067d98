// Package options prices European options with the Black-Scholes model.
//
// All functions take the spot S, strike K, time to expiry T in years, the
// continuously compounded risk-free rate r and annualized volatility sigma.
package options

import (
	"math"

	"github.com/newthinker/tradebot/internal/core"
)

const (
	ivInitialGuess = 0.5
	ivMaxIter      = 100
	ivTolerance    = 0.001
	minVega        = 1e-8
	minSigma       = 0.01
	maxSigma       = 5.0
)

// Greeks holds the price sensitivities of an option.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64 // per calendar day
	Vega  float64 // per unit of volatility
}

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// NormPDF is the standard normal density.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

func d1d2(s, k, t, r, sigma float64) (float64, float64) {
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	return d1, d1 - sigma*sqrtT
}

// CallPrice returns the Black-Scholes price of a European call. With no
// volatility or no time left it is the discounted intrinsic value.
func CallPrice(s, k, t, r, sigma float64) float64 {
	if sigma <= 0 || t <= 0 {
		return math.Max(s-k*math.Exp(-r*math.Max(t, 0)), 0)
	}
	d1, d2 := d1d2(s, k, t, r, sigma)
	return s*NormCDF(d1) - k*math.Exp(-r*t)*NormCDF(d2)
}

// PutPrice returns the Black-Scholes price of a European put.
func PutPrice(s, k, t, r, sigma float64) float64 {
	if sigma <= 0 || t <= 0 {
		return math.Max(k*math.Exp(-r*math.Max(t, 0))-s, 0)
	}
	d1, d2 := d1d2(s, k, t, r, sigma)
	return k*math.Exp(-r*t)*NormCDF(-d2) - s*NormCDF(-d1)
}

// Price dispatches on the option type.
func Price(typ core.OptionType, s, k, t, r, sigma float64) float64 {
	if typ == core.OptionPut {
		return PutPrice(s, k, t, r, sigma)
	}
	return CallPrice(s, k, t, r, sigma)
}

// ImpliedVolatility inverts the pricing formula with Newton-Raphson starting
// at sigma=0.5. Each step is clamped to [0.01, 5.0]. The search is best
// effort: converged is false when the iteration budget ran out or vega
// vanished, and sigma then holds the last iterate.
func ImpliedVolatility(marketPrice, s, k, t, r float64, typ core.OptionType) (sigma float64, converged bool) {
	sigma = ivInitialGuess
	if t <= 0 || s <= 0 || k <= 0 {
		return sigma, false
	}
	for i := 0; i < ivMaxIter; i++ {
		diff := marketPrice - Price(typ, s, k, t, r, sigma)
		if math.Abs(diff) < ivTolerance {
			return sigma, true
		}

		d1, _ := d1d2(s, k, t, r, sigma)
		vega := s * math.Sqrt(t) * NormPDF(d1)
		if math.Abs(vega) < minVega {
			break
		}
		sigma = clamp(sigma+diff/vega, minSigma, maxSigma)
	}
	return sigma, false
}

// CalculateGreeks returns delta, gamma, theta (per day) and vega. With no
// volatility or no time left the option behaves like its intrinsic value:
// delta is 0 or ±1 by moneyness and the other Greeks are 0.
func CalculateGreeks(s, k, t, r, sigma float64, typ core.OptionType) Greeks {
	if sigma <= 0 || t <= 0 {
		return intrinsicGreeks(s, k*math.Exp(-r*math.Max(t, 0)), typ)
	}
	d1, d2 := d1d2(s, k, t, r, sigma)
	sqrtT := math.Sqrt(t)
	pdf := NormPDF(d1)
	discount := r * k * math.Exp(-r*t)

	g := Greeks{
		Gamma: pdf / (s * sigma * sqrtT),
		Vega:  s * sqrtT * pdf,
	}

	decay := -(s * pdf * sigma) / (2 * sqrtT)
	if typ == core.OptionPut {
		g.Delta = NormCDF(d1) - 1
		g.Theta = decay + discount*NormCDF(-d2)
	} else {
		g.Delta = NormCDF(d1)
		g.Theta = decay - discount*NormCDF(d2)
	}
	g.Theta /= 365

	return g
}

func intrinsicGreeks(s, discountedK float64, typ core.OptionType) Greeks {
	var g Greeks
	if typ == core.OptionPut {
		if s < discountedK {
			g.Delta = -1
		}
	} else if s > discountedK {
		g.Delta = 1
	}
	return g
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
