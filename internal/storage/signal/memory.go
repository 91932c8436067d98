// internal/storage/signal/memory.go
package signal

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/newthinker/tradebot/internal/core"
)

const DefaultMaxSize = 10000

// MemoryStore is an in-memory signal store. Once full, the oldest signals
// are dropped.
type MemoryStore struct {
	signals []core.Signal
	maxSize int
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with max capacity.
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &MemoryStore{
		signals: make([]core.Signal, 0, min(maxSize, 256)),
		maxSize: maxSize,
	}
}

// Save adds a signal to the store.
func (m *MemoryStore) Save(ctx context.Context, signal core.Signal) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if signal.ID == "" {
		signal.ID = uuid.NewString()
	}
	signal.Targets = append([]float64(nil), signal.Targets...)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.signals = append(m.signals, signal)
	if len(m.signals) > m.maxSize {
		m.signals = m.signals[len(m.signals)-m.maxSize:]
	}
	return signal.ID, nil
}

// GetByID retrieves a signal by ID.
func (m *MemoryStore) GetByID(ctx context.Context, id string) (*core.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.signals {
		if m.signals[i].ID == id {
			sig := m.signals[i]
			return &sig, nil
		}
	}
	return nil, core.ErrSignalNotFound
}

// Latest returns the newest signal for symbol.
func (m *MemoryStore) Latest(ctx context.Context, symbol string) (*core.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.signals) - 1; i >= 0; i-- {
		if m.signals[i].Symbol == symbol {
			sig := m.signals[i]
			return &sig, nil
		}
	}
	return nil, core.ErrSignalNotFound
}

// List returns signals matching the filter.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]core.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []core.Signal{}
	for _, sig := range m.signals {
		if matches(sig, filter) {
			result = append(result, sig)
		}
	}

	if filter.Offset >= len(result) {
		return []core.Signal{}, nil
	}
	if filter.Offset > 0 {
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Count returns the count of matching signals.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, sig := range m.signals {
		if matches(sig, filter) {
			count++
		}
	}
	return count, nil
}

func matches(sig core.Signal, filter ListFilter) bool {
	if filter.Symbol != "" && sig.Symbol != filter.Symbol {
		return false
	}
	if filter.Strategy != "" && sig.Strategy != filter.Strategy {
		return false
	}
	if filter.Action != "" && sig.Action != filter.Action {
		return false
	}
	if filter.Regime != "" && sig.Regime != filter.Regime {
		return false
	}
	if !filter.From.IsZero() && sig.GeneratedAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && sig.GeneratedAt.After(filter.To) {
		return false
	}
	return true
}
