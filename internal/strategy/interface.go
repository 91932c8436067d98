package strategy

import (
	"time"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/predictor"
)

// Config holds strategy configuration
type Config struct {
	Enabled bool
	Params  map[string]any
}

// DataRequirements lists the inputs a strategy cannot run without. Inputs
// a strategy merely uses when present are not listed.
type DataRequirements struct {
	PriceHistory int  // minimum candles
	Fundamentals bool // valid fundamentals
	OnChain      bool // valid on-chain flows
	Indicators   []string
}

// Missing reports the first requirement ctx does not satisfy, or "".
func (r DataRequirements) Missing(ctx AnalysisContext) string {
	switch {
	case len(ctx.Candles) < r.PriceHistory:
		return "price_history"
	case r.Fundamentals && !ctx.Fundamentals.Valid:
		return "fundamentals"
	case r.OnChain && !ctx.OnChain.Valid:
		return "on_chain"
	}
	return ""
}

// AnalysisContext provides data to strategies
type AnalysisContext struct {
	Symbol       string
	AssetType    core.AssetType
	Candles      []core.Candle
	Sentiment    float64 // aggregated headline score in [-1, 1]
	Fundamentals core.Fundamentals
	OnChain      core.OnChainData
	Levels       indicator.Levels
	// Predictor is the caller's private snapshot. Strategies may read it
	// but must not share it across goroutines.
	Predictor *predictor.Predictor
	Now       time.Time
}

// Closes returns the close prices of the context's candles.
func (c AnalysisContext) Closes() []float64 {
	return core.Closes(c.Candles)
}

// Timestamp returns Now, or the current time when Now is unset.
func (c AnalysisContext) Timestamp() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

// Strategy defines the interface for trading strategies
type Strategy interface {
	Name() string
	Description() string
	RequiredData() DataRequirements
	Init(cfg Config) error
	Analyze(ctx AnalysisContext) ([]core.Signal, error)
}
