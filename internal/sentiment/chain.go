package sentiment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/core"
)

// Observer is told the outcome of every analyzer attempt.
type Observer func(analyzer string, err error)

// Chain tries analyzers in order and returns the first success.
type Chain struct {
	analyzers []Analyzer
	observe   Observer
	logger    *zap.Logger
}

// NewChain creates a chain over analyzers.
func NewChain(logger *zap.Logger, analyzers ...Analyzer) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{analyzers: analyzers, logger: logger}
}

// WithObserver registers an outcome callback.
func (c *Chain) WithObserver(o Observer) *Chain {
	c.observe = o
	return c
}

func (c *Chain) Name() string { return "chain" }

// Names lists the analyzers in try order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.analyzers))
	for i, a := range c.analyzers {
		names[i] = a.Name()
	}
	return names
}

func (c *Chain) Analyze(ctx context.Context, text string) (Result, error) {
	var errs []error
	for _, a := range c.analyzers {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		res, err := a.Analyze(ctx, text)
		if c.observe != nil {
			c.observe(a.Name(), err)
		}
		if err != nil {
			c.logger.Debug("sentiment analyzer failed",
				zap.String("analyzer", a.Name()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", a.Name(), err))
			continue
		}
		return res, nil
	}
	if len(errs) == 0 {
		return Result{}, core.WrapError(core.ErrSentimentFailed, fmt.Errorf("no analyzers configured"))
	}
	return Result{}, core.WrapError(core.ErrSentimentFailed, errors.Join(errs...))
}
