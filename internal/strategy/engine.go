package strategy

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/core"
)

// Engine holds the registered strategies and runs them over one
// instrument at a time.
type Engine struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	logger     *zap.Logger
}

// NewEngine creates an empty engine.
func NewEngine(logger ...*zap.Logger) *Engine {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Engine{
		strategies: make(map[string]Strategy),
		logger:     l,
	}
}

// Register adds s, replacing any strategy with the same name.
func (e *Engine) Register(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.strategies[s.Name()]; ok {
		e.logger.Warn("replacing strategy", zap.String("strategy", s.Name()))
	}
	e.strategies[s.Name()] = s
}

// Get retrieves a strategy by name.
func (e *Engine) Get(name string) (Strategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.strategies[name]
	return s, ok
}

// GetAll returns the registered strategies ordered by name.
func (e *Engine) GetAll() []Strategy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Strategy, 0, len(e.strategies))
	for _, s := range e.strategies {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Names returns the registered strategy names in order.
func (e *Engine) Names() []string {
	all := e.GetAll()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name()
	}
	return names
}

// Analyze runs every strategy whose data requirements actx meets, in name
// order. Strategies that fail are logged and skipped. Each signal is
// stamped with its strategy name, and with the symbol and time of actx
// when the strategy left them unset. Only a cancelled ctx is an error.
func (e *Engine) Analyze(ctx context.Context, actx AnalysisContext) ([]core.Signal, error) {
	var out []core.Signal
	log := e.logger.With(zap.String("symbol", actx.Symbol))

	for _, s := range e.GetAll() {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if missing := s.RequiredData().Missing(actx); missing != "" {
			log.Debug("strategy skipped", zap.String("strategy", s.Name()), zap.String("missing", missing))
			continue
		}

		signals, err := s.Analyze(actx)
		if err != nil {
			log.Warn("strategy analysis failed", zap.String("strategy", s.Name()), zap.Error(err))
			continue
		}

		for i := range signals {
			signals[i].Strategy = s.Name()
			if signals[i].Symbol == "" {
				signals[i].Symbol = actx.Symbol
			}
			if signals[i].GeneratedAt.IsZero() {
				signals[i].GeneratedAt = actx.Timestamp()
			}
		}
		out = append(out, signals...)
	}

	return out, nil
}
