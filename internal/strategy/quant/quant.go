// Package quant implements the multi-source signal engine: technical
// indicators, statistical forecasts, fundamentals, on-chain flows, an
// online predictor and news sentiment are fused into one Signal.
package quant

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/cycle"
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/options"
	"github.com/newthinker/tradebot/internal/predictor"
	"github.com/newthinker/tradebot/internal/regime"
	"github.com/newthinker/tradebot/internal/strategy"
	"github.com/newthinker/tradebot/internal/volatility"
)

// Name is the registered strategy name.
const Name = "quant"

const (
	DefaultRiskFreeRate = 0.04
	OptionExpiryDays    = 45

	forecastHorizon = 30
	targetLookback  = 90
	rsiPeriod       = 14
	atrPeriod       = 14
	squeezeLookback = 120
	squeezePct      = 0.10

	actionThreshold  = 0.25
	deepThreshold    = 0.4
	optionThreshold  = 0.4
	vetoThreshold    = -0.2
	targetBuffer     = 0.005
	callStrikeFactor = 1.05
	putStrikeFactor  = 0.95
)

// VetoReason is the reason of a bearish signal suppressed at support.
const VetoReason = "Hold: Bearish Signal, but at Support"

// Quant is the signal engine exposed as a strategy.
type Quant struct {
	riskFreeRate float64
}

// New creates the engine with the default risk-free rate.
func New() *Quant {
	return &Quant{riskFreeRate: DefaultRiskFreeRate}
}

func (q *Quant) Name() string {
	return Name
}

func (q *Quant) Description() string {
	return "Multi-factor signal engine (regime, forecasts, sentiment, options)"
}

func (q *Quant) RequiredData() strategy.DataRequirements {
	// fundamentals, on-chain flows and sentiment are blended in when present
	return strategy.DataRequirements{
		PriceHistory: 1,
		Indicators:   []string{"RSI", "MACD", "BB", "ATR", "GARCH", "DFT"},
	}
}

func (q *Quant) Init(cfg strategy.Config) error {
	if r, ok := cfg.Params["risk_free_rate"].(float64); ok {
		q.riskFreeRate = r
	}
	return nil
}

// RiskFreeRate is the rate used for option pricing.
func (q *Quant) RiskFreeRate() float64 {
	return q.riskFreeRate
}

func (q *Quant) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Candles) == 0 {
		return nil, core.ErrNoData
	}
	return []core.Signal{q.Evaluate(ctx)}, nil
}

// Evaluate runs the engine with default parameters.
func Evaluate(ctx strategy.AnalysisContext) core.Signal {
	return New().Evaluate(ctx)
}

// Evaluate turns one instrument's inputs into a Signal. It does not train or
// otherwise modify ctx.Predictor.
func (q *Quant) Evaluate(ctx strategy.AnalysisContext) core.Signal {
	sig := core.HoldSignal(ctx.Symbol)
	sig.Strategy = Name
	sig.GeneratedAt = ctx.Timestamp()
	if len(ctx.Candles) == 0 {
		return sig
	}

	closes := ctx.Closes()
	price := closes[len(closes)-1]
	sig.Entry = price

	reg := regime.Classify(closes)
	sig.Regime = string(reg)

	garchVol := volatility.GARCH(volatility.LogReturns(closes))
	cyclePeriod := cycle.Detect(closes)
	macd, macdSignal := indicator.MACD(closes)
	rsi := indicator.AdaptiveRSI(closes, rsiPeriod)

	model := ctx.Predictor
	if model == nil {
		model = predictor.New()
	}
	features := predictor.ExtractFeatures(rsi, macd-macdSignal, ctx.Sentiment, garchVol, cyclePeriod, len(closes))
	mlPred := model.Predict(features)
	sig.MLForecast = mlPred

	forecast := selectForecast(reg,
		indicator.ForecastLinear(closes, forecastHorizon),
		indicator.ForecastPoly(closes, forecastHorizon, 2),
		price,
	)
	stat := statScore(scoreInputs{
		regime:       reg,
		price:        price,
		forecast:     forecast,
		rsi:          rsi,
		bands:        indicator.Bollinger(closes, 20, 2),
		macdHist:     macd - macdSignal,
		fundamentals: ctx.Fundamentals,
		onChain:      ctx.OnChain,
		mlPrediction: mlPred,
	})
	blended := BlendSentiment(stat, ctx.Sentiment, reg)

	var notes []string
	if math.Abs(blended) < deepThreshold {
		pattern := indicator.DetectPattern(ctx.Candles)
		if pattern.Score > 0 && price < ctx.Levels.Support*1.05 {
			blended += 0.3
		} else if pattern.Score < 0 && price > ctx.Levels.Resistance*0.95 {
			blended -= 0.3
		}
		if pattern.Found() {
			notes = append(notes, "Pattern: "+pattern.Name)
		}
		if indicator.VolatilitySqueeze(closes, squeezeLookback, squeezePct) {
			blended += 0.1 * sign(blended)
			notes = append(notes, "Squeeze")
		}
	}

	highRisk := garchVol > regime.HighVolThreshold
	if highRisk && blended > 0 {
		blended *= 0.5
	}

	if blended < vetoThreshold && price <= ctx.Levels.Support*1.02 {
		sig.Action = core.ActionHold
		sig.Confidence = 50
		sig.Reason = VetoReason
		return sig
	}

	tp := targetPicker{
		candles: ctx.Candles,
		closes:  closes,
		price:   price,
		levels:  ctx.Levels,
	}

	switch {
	case blended > actionThreshold:
		sig.Action = core.ActionBuy
		sig.Targets = tp.pick(true)
		sig.Exit = sig.Targets[0]
		sig.Confidence = math.Abs(blended) * 100
		sig.Reason = fmt.Sprintf("Buy (Score %.2f) [%s Regime]", blended, reg)
		if highRisk {
			sig.Reason += " [High Risk]"
		}

		winProb := 0.55 + 0.20*(sig.Confidence/100)
		riskReward := 2.0
		if sig.Entry > ctx.Levels.Support {
			riskReward = (sig.Exit - sig.Entry) / (sig.Entry - ctx.Levels.Support)
		}
		if kelly := CalculateKelly(winProb, riskReward); kelly > 0 {
			sig.Reason += fmt.Sprintf(" [Size: %d%%]", int(kelly*100))
		}

	case blended < -actionThreshold:
		sig.Action = core.ActionSell
		sig.Targets = tp.pick(false)
		sig.Exit = sig.Targets[0]
		sig.Confidence = math.Abs(blended) * 100
		sig.Reason = fmt.Sprintf("Sell (Score %.2f) [%s Regime]", blended, reg)

	default:
		sig.Action = core.ActionHold
		sig.Confidence = (1 - math.Abs(blended)) * 100
		sig.Reason = fmt.Sprintf("Hold [%s]", reg)
		sig.ProspectiveBuy = tp.pick(false)[0]
		sig.ProspectiveSell = tp.pick(true)[0]
	}

	for _, n := range notes {
		sig.Reason += " [" + n + "]"
	}

	if math.Abs(blended) > optionThreshold {
		overlay := q.optionOverlay(price, garchVol, blended > 0)
		sig.Option = core.SomeOverlay(overlay)
		sig.Reason += fmt.Sprintf(" [%s $%.2f @ $%.2f]", overlay.Type.Label(), overlay.Strike, overlay.Price)
	}

	return sig
}

// optionOverlay prices a 45-day out-of-the-money option in the direction
// of the bias.
func (q *Quant) optionOverlay(price, dailyVol float64, bullish bool) core.OptionOverlay {
	o := core.OptionOverlay{
		Type:       core.OptionPut,
		Strike:     price * putStrikeFactor,
		ExpiryDays: OptionExpiryDays,
		Volatility: volatility.Annualize(dailyVol),
	}
	if bullish {
		o.Type = core.OptionCall
		o.Strike = price * callStrikeFactor
	}
	t := float64(OptionExpiryDays) / 365
	o.Price = options.Price(o.Type, price, o.Strike, t, q.riskFreeRate, o.Volatility)
	return o
}

// targetPicker chooses price targets from local extrema of the last 90
// bars, falling back to the support/resistance levels and finally to
// 2·ATR away from price.
type targetPicker struct {
	candles []core.Candle
	closes  []float64
	price   float64
	levels  indicator.Levels
}

// pick returns targets at least 0.5% away from price on the requested
// side, nearest first. The result is never empty.
func (tp targetPicker) pick(above bool) []float64 {
	raw := indicator.LocalExtrema(tp.closes, targetLookback, above)
	if len(raw) == 0 {
		raw = []float64{tp.levelFallback(above)}
	}

	var out []float64
	for _, t := range raw {
		if above && t > tp.price*(1+targetBuffer) {
			out = append(out, t)
		}
		if !above && t < tp.price*(1-targetBuffer) {
			out = append(out, t)
		}
	}

	if len(out) == 0 {
		atr := indicator.ATR(tp.candles, atrPeriod)
		if atr == 0 {
			atr = tp.price * 0.02
		}
		if above {
			out = append(out, tp.price+2*atr)
		} else {
			out = append(out, tp.price-2*atr)
		}
	}

	if above {
		sort.Float64s(out)
	} else {
		sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	}
	return out
}

func (tp targetPicker) levelFallback(above bool) float64 {
	if above {
		if tp.levels.Resistance > tp.price {
			return tp.levels.Resistance
		}
		return tp.price * 1.05
	}
	if tp.levels.Support > 0 && tp.levels.Support < tp.price {
		return tp.levels.Support
	}
	return tp.price * 0.95
}

// FormatTargets renders targets as a comma separated list.
func FormatTargets(targets []float64) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = fmt.Sprintf("%.2f", t)
	}
	return strings.Join(parts, ", ")
}
