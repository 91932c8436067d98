package quant

import (
	"math"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/regime"
)

// forecastRule picks the forecast for one regime. ok=false defers to the
// linear forecast.
type forecastRule struct {
	regime regime.Regime
	pick   func(linear, poly, price float64) (float64, bool)
}

// forecastRules are tried in order. Sideways markets trust the curvature of
// the degree-2 fit; trending markets use it only when it confirms the trend.
var forecastRules = []forecastRule{
	{regime.Sideways, func(_, poly, _ float64) (float64, bool) { return poly, true }},
	{regime.Bull, func(_, poly, price float64) (float64, bool) { return poly, poly > price }},
	{regime.Bear, func(_, poly, price float64) (float64, bool) { return poly, poly < price }},
}

func selectForecast(r regime.Regime, linear, poly, price float64) float64 {
	for _, rule := range forecastRules {
		if rule.regime != r {
			continue
		}
		if v, ok := rule.pick(linear, poly, price); ok {
			return v
		}
	}
	return linear
}

// scoreInputs are the readings the statistical score is built from.
type scoreInputs struct {
	regime       regime.Regime
	price        float64
	forecast     float64
	rsi          float64
	bands        indicator.BollingerBands
	macdHist     float64
	fundamentals core.Fundamentals
	onChain      core.OnChainData
	mlPrediction float64
}

// statScore combines forecast, mean-reversion, momentum, valuation, flow and
// model bias into a score clamped to [-1, 1].
func statScore(in scoreInputs) float64 {
	var score float64

	if in.price > 0 {
		score += clamp(5*(in.forecast-in.price)/in.price, -0.5, 0.5)
	}

	// Bollinger returns zero bands on short histories; band rules need real bands.
	haveBands := in.bands.Middle > 0
	switch in.regime {
	case regime.Bull:
		// Overbought readings are ignored in an uptrend.
		if haveBands && in.price < in.bands.Lower {
			score += 0.4
		}
		if in.rsi < 40 {
			score += 0.3
		}
	case regime.Bear:
		if haveBands && in.price > in.bands.Upper {
			score -= 0.4
		}
		if in.rsi > 60 {
			score -= 0.3
		}
	default:
		if !haveBands {
			break
		}
		if in.price < in.bands.Lower {
			score += 0.3
		} else if in.price > in.bands.Upper {
			score -= 0.3
		}
	}

	score += 0.2 * sign(in.macdHist)

	if in.fundamentals.Valid && in.fundamentals.PERatio > 0.1 {
		if in.fundamentals.PERatio < 15 {
			score += 0.2
		} else if in.fundamentals.PERatio > 50 {
			score -= 0.1
		}
	}

	if in.onChain.Valid {
		score += 0.15 * sign(in.onChain.NetInflow)
	}

	if in.mlPrediction > 0.005 {
		score += 0.15
	} else if in.mlPrediction < -0.005 {
		score -= 0.15
	}

	return clamp(score, -1, 1)
}

// BlendSentiment mixes the statistical score with the news sentiment. News
// weighs 50% in a high-volatility regime, 40% when the sentiment is extreme
// (|s| >= 0.8) and 25% otherwise.
func BlendSentiment(stat, sentiment float64, r regime.Regime) float64 {
	w := 0.25
	if r == regime.HighVol {
		w = 0.50
	} else if math.Abs(sentiment) >= 0.8 {
		w = 0.40
	}
	return stat*(1-w) + sentiment*w
}

// CalculateKelly returns the Kelly fraction of capital to risk for a bet
// with win probability p and payoff ratio b. It is 0 when b <= 0.
func CalculateKelly(p, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return (p*(b+1) - 1) / b
}

// scoreEpsilon treats residual floating-point noise as a neutral score.
const scoreEpsilon = 1e-9

func sign(v float64) float64 {
	switch {
	case v > scoreEpsilon:
		return 1
	case v < -scoreEpsilon:
		return -1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
