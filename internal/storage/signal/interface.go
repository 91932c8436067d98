// internal/storage/signal/interface.go
package signal

import (
	"context"
	"time"

	"github.com/newthinker/tradebot/internal/core"
)

// Store defines the interface for signal persistence.
type Store interface {
	// Save persists a signal and returns its ID. A signal without an ID
	// gets a new one.
	Save(ctx context.Context, signal core.Signal) (string, error)

	// GetByID retrieves a signal by its ID.
	GetByID(ctx context.Context, id string) (*core.Signal, error)

	// Latest returns the most recently saved signal for symbol.
	Latest(ctx context.Context, symbol string) (*core.Signal, error)

	// List retrieves signals matching the filter, oldest first.
	List(ctx context.Context, filter ListFilter) ([]core.Signal, error)

	// Count returns the number of signals matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter defines criteria for listing signals.
type ListFilter struct {
	Symbol   string
	Strategy string
	Action   core.Action
	Regime   string
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}
