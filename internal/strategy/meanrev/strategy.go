package meanrev

import (
	"fmt"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/strategy"
)

// MeanReversion buys oversold prices and sells overbought ones using RSI and
// Bollinger Bands only. It is the technical proxy the backtester replays,
// since sentiment and fundamentals cannot be reconstructed per bar.
type MeanReversion struct {
	rsiPeriod  int
	bbPeriod   int
	bbMult     float64
	oversold   float64
	overbought float64
	minHistory int
}

// New creates the strategy with RSI(14), BB(20, 2) and 30/70 thresholds.
func New() *MeanReversion {
	return &MeanReversion{
		rsiPeriod:  14,
		bbPeriod:   20,
		bbMult:     2,
		oversold:   30,
		overbought: 70,
		minHistory: 50,
	}
}

func (m *MeanReversion) Name() string {
	return "meanrev"
}

func (m *MeanReversion) Description() string {
	return fmt.Sprintf("Mean Reversion (RSI%d %.0f/%.0f, BB%d)", m.rsiPeriod, m.oversold, m.overbought, m.bbPeriod)
}

func (m *MeanReversion) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		PriceHistory: m.minHistory,
		Indicators:   []string{"RSI", "BB"},
	}
}

func (m *MeanReversion) Init(cfg strategy.Config) error {
	if v, ok := cfg.Params["rsi_period"].(int); ok {
		m.rsiPeriod = v
	}
	if v, ok := cfg.Params["bb_period"].(int); ok {
		m.bbPeriod = v
	}
	if v, ok := cfg.Params["oversold"].(float64); ok {
		m.oversold = v
	}
	if v, ok := cfg.Params["overbought"].(float64); ok {
		m.overbought = v
	}
	if m.oversold >= m.overbought {
		return fmt.Errorf("oversold %.1f must be below overbought %.1f: %w", m.oversold, m.overbought, core.ErrConfigInvalid)
	}
	return nil
}

type reading struct {
	price float64
	rsi   float64
	bands indicator.BollingerBands
}

func (m *MeanReversion) read(history []core.Candle) reading {
	closes := core.Closes(history)
	return reading{
		price: closes[len(closes)-1],
		rsi:   indicator.RSI(closes, m.rsiPeriod),
		bands: indicator.Bollinger(closes, m.bbPeriod, m.bbMult),
	}
}

func (m *MeanReversion) decide(r reading) core.Action {
	if r.rsi < m.oversold || r.price < r.bands.Lower {
		return core.ActionBuy
	}
	if r.rsi > m.overbought || r.price > r.bands.Upper {
		return core.ActionSell
	}
	return core.ActionHold
}

// Decide returns the action for the last bar of history. Fewer than 50
// candles always hold.
func (m *MeanReversion) Decide(history []core.Candle) core.Action {
	if len(history) < m.minHistory {
		return core.ActionHold
	}
	return m.decide(m.read(history))
}

func (m *MeanReversion) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Candles) < m.minHistory {
		return nil, nil // Not enough data
	}

	r := m.read(ctx.Candles)
	action := m.decide(r)

	sig := core.Signal{
		Symbol:      ctx.Symbol,
		Action:      action,
		Entry:       r.price,
		GeneratedAt: ctx.Timestamp(),
	}

	switch action {
	case core.ActionBuy:
		sig.Confidence = m.confidence(m.oversold-r.rsi, r.bands.Lower-r.price, r.bands.Middle)
		sig.Reason = fmt.Sprintf("Oversold: RSI %.1f, price %.2f vs lower band %.2f", r.rsi, r.price, r.bands.Lower)
		sig.Exit = r.bands.Middle
	case core.ActionSell:
		sig.Confidence = m.confidence(r.rsi-m.overbought, r.price-r.bands.Upper, r.bands.Middle)
		sig.Reason = fmt.Sprintf("Overbought: RSI %.1f, price %.2f vs upper band %.2f", r.rsi, r.price, r.bands.Upper)
		sig.Exit = r.bands.Middle
	default:
		sig.Confidence = 50
		sig.Reason = fmt.Sprintf("Inside bands: RSI %.1f", r.rsi)
	}
	if sig.Exit > 0 {
		sig.Targets = []float64{sig.Exit}
	}

	return []core.Signal{sig}, nil
}

// confidence grows with how far RSI and price sit beyond their thresholds,
// scaled into 50-90.
func (m *MeanReversion) confidence(rsiExcess, bandExcess, middle float64) float64 {
	score := max(rsiExcess, 0) / 30
	if middle > 0 {
		score += max(bandExcess, 0) / middle * 10
	}
	return min(50+score*40, 90)
}
