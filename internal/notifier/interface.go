// Package notifier delivers actionable signals to external channels.
package notifier

import (
	"context"

	"github.com/newthinker/tradebot/internal/core"
)

// Notifier defines the interface for signal notification
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Send sends a single signal notification
	Send(ctx context.Context, signal core.Signal) error

	// SendBatch sends multiple signal notifications in one message
	SendBatch(ctx context.Context, signals []core.Signal) error
}
