package ma_crossover

import (
	"fmt"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/indicator"
	"github.com/newthinker/tradebot/internal/strategy"
)

// Name is the registered strategy name.
const Name = "ma_crossover"

// MACrossover signals golden and death crosses of two simple moving
// averages on the close.
type MACrossover struct {
	fastPeriod int
	slowPeriod int
}

// New creates a new MA Crossover strategy
func New(fastPeriod, slowPeriod int) *MACrossover {
	return &MACrossover{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
	}
}

func (m *MACrossover) Name() string {
	return Name
}

func (m *MACrossover) Description() string {
	return fmt.Sprintf("MA Crossover (%d/%d)", m.fastPeriod, m.slowPeriod)
}

func (m *MACrossover) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		PriceHistory: m.slowPeriod + 1,
		Indicators:   []string{"SMA"},
	}
}

func (m *MACrossover) Init(cfg strategy.Config) error {
	if fast, ok := cfg.Params["fast_period"].(int); ok {
		m.fastPeriod = fast
	}
	if slow, ok := cfg.Params["slow_period"].(int); ok {
		m.slowPeriod = slow
	}
	if m.fastPeriod <= 0 || m.fastPeriod >= m.slowPeriod {
		return fmt.Errorf("fast period %d must be positive and below slow period %d: %w",
			m.fastPeriod, m.slowPeriod, core.ErrConfigInvalid)
	}
	return nil
}

func (m *MACrossover) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	// Two slow averages are needed to see a cross.
	if len(ctx.Candles) <= m.slowPeriod {
		return nil, nil
	}

	prices := ctx.Closes()
	fastMA := indicator.SMA(prices, m.fastPeriod)
	slowMA := indicator.SMA(prices, m.slowPeriod)

	currFast := fastMA[len(fastMA)-1]
	prevFast := fastMA[len(fastMA)-2]
	currSlow := slowMA[len(slowMA)-1]
	prevSlow := slowMA[len(slowMA)-2]
	price := prices[len(prices)-1]

	var sig core.Signal
	switch {
	case prevFast <= prevSlow && currFast > currSlow:
		sig = core.Signal{
			Action: core.ActionBuy,
			Reason: fmt.Sprintf("Golden Cross: MA%d (%.2f) crossed above MA%d (%.2f)", m.fastPeriod, currFast, m.slowPeriod, currSlow),
		}
	case prevFast >= prevSlow && currFast < currSlow:
		sig = core.Signal{
			Action: core.ActionSell,
			Reason: fmt.Sprintf("Death Cross: MA%d (%.2f) crossed below MA%d (%.2f)", m.fastPeriod, currFast, m.slowPeriod, currSlow),
		}
	default:
		return nil, nil
	}

	sig.Symbol = ctx.Symbol
	sig.Entry = price
	sig.Confidence = m.calculateConfidence(currFast, currSlow)
	sig.GeneratedAt = ctx.Timestamp()
	return []core.Signal{sig}, nil
}

// calculateConfidence returns higher confidence for larger divergence,
// scaled into 50-90.
func (m *MACrossover) calculateConfidence(fast, slow float64) float64 {
	if slow == 0 {
		return 50
	}
	diff := (fast - slow) / slow
	if diff < 0 {
		diff = -diff
	}
	return min(50+diff*1000, 90)
}
