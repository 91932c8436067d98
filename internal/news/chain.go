package news

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Chain asks providers in order and returns the first non-empty answer.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain creates a chain over providers.
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{providers: providers, logger: logger}
}

func (c *Chain) Name() string { return "chain" }

// Headlines returns an error only when every provider failed.
func (c *Chain) Headlines(ctx context.Context, symbol string) ([]Item, error) {
	var errs []error
	for _, p := range c.providers {
		items, err := p.Headlines(ctx, symbol)
		if err != nil {
			c.logger.Warn("news provider failed",
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	if len(errs) == len(c.providers) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
