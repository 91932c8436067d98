package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/core"
)

type mockStrategy struct {
	name    string
	req     DataRequirements
	signals []core.Signal
	err     error
}

func (m *mockStrategy) Name() string                   { return m.name }
func (m *mockStrategy) Description() string            { return "mock strategy" }
func (m *mockStrategy) RequiredData() DataRequirements { return m.req }
func (m *mockStrategy) Init(cfg Config) error          { return nil }
func (m *mockStrategy) Analyze(ctx AnalysisContext) ([]core.Signal, error) {
	out := make([]core.Signal, len(m.signals))
	copy(out, m.signals)
	return out, m.err
}

func candles(n int) []core.Candle {
	out := make([]core.Candle, n)
	for i := range out {
		out[i] = core.Candle{Close: float64(100 + i)}
	}
	return out
}

func TestEngine_AnalyzeStampsSignals(t *testing.T) {
	engine := NewEngine()
	engine.Register(&mockStrategy{
		name:    "mock",
		signals: []core.Signal{{Action: core.ActionBuy, Confidence: 80}},
	})

	now := time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC)
	signals, err := engine.Analyze(context.Background(), AnalysisContext{Symbol: "AAPL", Now: now})
	require.NoError(t, err)
	require.Len(t, signals, 1)

	assert.Equal(t, "mock", signals[0].Strategy)
	assert.Equal(t, "AAPL", signals[0].Symbol)
	assert.Equal(t, now, signals[0].GeneratedAt)
	assert.Equal(t, core.ActionBuy, signals[0].Action)
}

func TestEngine_OrderAndRegistration(t *testing.T) {
	engine := NewEngine()
	engine.Register(&mockStrategy{name: "b", signals: []core.Signal{{Symbol: "X"}}})
	engine.Register(&mockStrategy{name: "a", signals: []core.Signal{{Symbol: "X"}}})
	engine.Register(&mockStrategy{name: "a", signals: []core.Signal{{Symbol: "Y"}}})

	assert.Equal(t, []string{"a", "b"}, engine.Names())

	s, ok := engine.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", s.Name())
	_, ok = engine.Get("zzz")
	assert.False(t, ok)

	signals, err := engine.Analyze(context.Background(), AnalysisContext{Symbol: "X"})
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, "Y", signals[0].Symbol, "later registration replaces the earlier one")
	assert.Equal(t, "b", signals[1].Strategy)
}

func TestEngine_SkipsUnmetRequirements(t *testing.T) {
	engine := NewEngine()
	engine.Register(&mockStrategy{name: "long", req: DataRequirements{PriceHistory: 50}, signals: []core.Signal{{}}})
	engine.Register(&mockStrategy{name: "pe", req: DataRequirements{Fundamentals: true}, signals: []core.Signal{{}}})
	engine.Register(&mockStrategy{name: "flows", req: DataRequirements{OnChain: true}, signals: []core.Signal{{}}})
	engine.Register(&mockStrategy{name: "short", req: DataRequirements{PriceHistory: 5}, signals: []core.Signal{{}}})

	signals, err := engine.Analyze(context.Background(), AnalysisContext{Symbol: "BTC-USD", Candles: candles(10)})
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "short", signals[0].Strategy)

	signals, err = engine.Analyze(context.Background(), AnalysisContext{
		Symbol:       "BTC-USD",
		Candles:      candles(60),
		Fundamentals: core.Fundamentals{PERatio: 20, Valid: true},
		OnChain:      core.OnChainData{NetInflow: 1, Valid: true},
	})
	require.NoError(t, err)
	assert.Len(t, signals, 4)
}

func TestDataRequirements_Missing(t *testing.T) {
	req := DataRequirements{PriceHistory: 3, Fundamentals: true, OnChain: true}

	assert.Equal(t, "price_history", req.Missing(AnalysisContext{Candles: candles(2)}))
	assert.Equal(t, "fundamentals", req.Missing(AnalysisContext{Candles: candles(3)}))
	assert.Equal(t, "on_chain", req.Missing(AnalysisContext{
		Candles:      candles(3),
		Fundamentals: core.Fundamentals{Valid: true},
	}))
	assert.Empty(t, req.Missing(AnalysisContext{
		Candles:      candles(3),
		Fundamentals: core.Fundamentals{Valid: true},
		OnChain:      core.OnChainData{Valid: true},
	}))
}

func TestEngine_SkipsFailingStrategy(t *testing.T) {
	engine := NewEngine()
	engine.Register(&mockStrategy{name: "broken", err: core.ErrInsufficientData})
	engine.Register(&mockStrategy{name: "ok", signals: []core.Signal{{Symbol: "A", Action: core.ActionHold}}})

	signals, err := engine.Analyze(context.Background(), AnalysisContext{Symbol: "A"})
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "ok", signals[0].Strategy)
}

func TestEngine_CancelledContext(t *testing.T) {
	engine := NewEngine()
	engine.Register(&mockStrategy{name: "a", signals: []core.Signal{{Symbol: "A"}}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Analyze(ctx, AnalysisContext{Symbol: "A"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalysisContext_Helpers(t *testing.T) {
	ac := AnalysisContext{Candles: []core.Candle{{Close: 1}, {Close: 2}}}
	assert.Equal(t, []float64{1, 2}, ac.Closes())
	assert.False(t, ac.Timestamp().IsZero())

	fixed := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fixed, AnalysisContext{Now: fixed}.Timestamp())
}
