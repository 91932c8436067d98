package pe_band

import (
	"fmt"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/strategy"
)

// Name is the registered strategy name.
const Name = "pe_band"

// PEBand buys when the trailing P/E falls under a floor and sells when it
// rises above a ceiling. Instruments without valid fundamentals, such as
// crypto, produce no signal.
type PEBand struct {
	lowThreshold  float64
	highThreshold float64
}

func New(lowThreshold, highThreshold float64) *PEBand {
	return &PEBand{lowThreshold: lowThreshold, highThreshold: highThreshold}
}

func (p *PEBand) Name() string { return Name }

func (p *PEBand) Description() string {
	return fmt.Sprintf("PE Band Strategy (low: %.1f, high: %.1f)", p.lowThreshold, p.highThreshold)
}

func (p *PEBand) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{PriceHistory: 0, Fundamentals: true}
}

func (p *PEBand) Init(cfg strategy.Config) error {
	if low, ok := cfg.Params["low_threshold"].(float64); ok {
		p.lowThreshold = low
	}
	if high, ok := cfg.Params["high_threshold"].(float64); ok {
		p.highThreshold = high
	}
	if p.lowThreshold <= 0 || p.lowThreshold >= p.highThreshold {
		return fmt.Errorf("pe band %.1f-%.1f is empty: %w", p.lowThreshold, p.highThreshold, core.ErrConfigInvalid)
	}
	return nil
}

func (p *PEBand) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	f := ctx.Fundamentals
	if !f.Valid || f.PERatio <= 0 {
		return nil, nil
	}
	pe := f.PERatio

	sig := core.Signal{
		Symbol:      ctx.Symbol,
		GeneratedAt: ctx.Timestamp(),
	}
	if n := len(ctx.Candles); n > 0 {
		sig.Entry = ctx.Candles[n-1].Close
	}

	switch {
	case pe < p.lowThreshold:
		sig.Action = core.ActionBuy
		sig.Confidence = p.calculateConfidence(pe, p.lowThreshold, true)
		sig.Reason = fmt.Sprintf("PE (%.2f) below threshold (%.1f)", pe, p.lowThreshold)
	case pe > p.highThreshold:
		sig.Action = core.ActionSell
		sig.Confidence = p.calculateConfidence(pe, p.highThreshold, false)
		sig.Reason = fmt.Sprintf("PE (%.2f) above threshold (%.1f)", pe, p.highThreshold)
	default:
		return nil, nil
	}
	return []core.Signal{sig}, nil
}

// calculateConfidence scales the relative distance past the threshold
// into 50-90.
func (p *PEBand) calculateConfidence(pe, threshold float64, isBuy bool) float64 {
	var diff float64
	if isBuy {
		diff = (threshold - pe) / threshold
	} else {
		diff = (pe - threshold) / threshold
	}
	return min(max(50+diff*200, 50), 90)
}
