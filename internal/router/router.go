// Package router filters generated signals and forwards the actionable
// ones to the registered notifiers.
package router

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/notifier"
)

// Config holds router configuration
type Config struct {
	MinConfidence    float64       `mapstructure:"min_confidence"` // 0-100
	CooldownDuration time.Duration `mapstructure:"cooldown_duration"`
	EnabledActions   []core.Action `mapstructure:"enabled_actions"`
}

// DefaultConfig returns default router configuration
func DefaultConfig() Config {
	return Config{
		MinConfidence:    60,
		CooldownDuration: 4 * time.Hour,
		EnabledActions:   []core.Action{core.ActionBuy, core.ActionSell},
	}
}

// Observer is told the outcome of every notifier delivery.
type Observer func(notifier string, err error)

// Router routes signals to notifiers with filtering. A symbol and action
// pair is forwarded at most once per cooldown.
type Router struct {
	cfg       Config
	registry  *notifier.Registry
	logger    *zap.Logger
	observe   Observer
	now       func() time.Time
	cooldowns map[string]time.Time // symbol|action -> last routed
	mu        sync.Mutex
}

// New creates a new signal router
func New(cfg Config, registry *notifier.Registry, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = notifier.NewRegistry()
	}
	return &Router{
		cfg:       cfg,
		registry:  registry,
		logger:    logger,
		now:       time.Now,
		cooldowns: make(map[string]time.Time),
	}
}

// WithObserver sets a delivery callback, typically a metrics recorder.
func (r *Router) WithObserver(o Observer) *Router {
	r.observe = o
	return r
}

// RouteBatch filters signals and sends the survivors to every notifier in
// one batch. It returns the number of signals forwarded. Delivery errors
// are logged, not returned.
func (r *Router) RouteBatch(ctx context.Context, signals []core.Signal) int {
	now := r.now()

	r.mu.Lock()
	r.pruneCooldowns(now)
	var filtered []core.Signal
	for _, sig := range signals {
		if !r.passesFilters(sig, now) {
			r.logger.Debug("signal filtered out",
				zap.String("symbol", sig.Symbol),
				zap.String("action", string(sig.Action)),
				zap.Float64("confidence", sig.Confidence),
			)
			continue
		}
		r.cooldowns[cooldownKey(sig)] = now
		filtered = append(filtered, sig)
	}
	r.mu.Unlock()

	if len(filtered) == 0 || r.registry.Len() == 0 {
		return len(filtered)
	}

	errs := r.registry.NotifyAllBatch(ctx, filtered)
	for _, name := range r.registry.Names() {
		err := errs[name]
		if err != nil {
			r.logger.Error("notifier failed on batch",
				zap.String("notifier", name),
				zap.Error(err),
			)
		}
		if r.observe != nil {
			r.observe(name, err)
		}
	}

	r.logger.Info("batch routed",
		zap.Int("total", len(signals)),
		zap.Int("filtered", len(filtered)),
		zap.Int("errors", len(errs)),
	)
	return len(filtered)
}

func cooldownKey(sig core.Signal) string {
	return sig.Symbol + "|" + string(sig.Action)
}

// passesFilters checks if a signal passes all configured filters. Callers
// hold mu.
func (r *Router) passesFilters(sig core.Signal, now time.Time) bool {
	if sig.Confidence < r.cfg.MinConfidence {
		return false
	}
	if len(r.cfg.EnabledActions) > 0 && !slices.Contains(r.cfg.EnabledActions, sig.Action) {
		return false
	}
	last, exists := r.cooldowns[cooldownKey(sig)]
	return !exists || now.Sub(last) >= r.cfg.CooldownDuration
}

// pruneCooldowns drops entries that no longer suppress anything. Callers
// hold mu.
func (r *Router) pruneCooldowns(now time.Time) {
	for key, last := range r.cooldowns {
		if now.Sub(last) >= r.cfg.CooldownDuration {
			delete(r.cooldowns, key)
		}
	}
}

// ActiveCooldowns returns the number of suppressed symbol and action pairs.
func (r *Router) ActiveCooldowns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cooldowns)
}
