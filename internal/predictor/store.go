// internal/predictor/store.go
package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/storage/archive"
)

const modelPrefix = "models"

// Store persists per-symbol predictor state in archive storage.
type Store struct {
	storage archive.Storage
	logger  *zap.Logger
}

// NewStore creates a Store on top of an archive backend.
func NewStore(storage archive.Storage, logger ...*zap.Logger) *Store {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Store{storage: storage, logger: l}
}

// ModelPath returns the storage path for a symbol's state.
func ModelPath(symbol string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(symbol)
	return path.Join(modelPrefix, safe+".json")
}

// Load returns the stored predictor for symbol. A missing state yields
// core.ErrModelNotFound.
func (s *Store) Load(ctx context.Context, symbol string) (*Predictor, error) {
	p := ModelPath(symbol)
	data, err := s.storage.Read(ctx, p)
	if errors.Is(err, archive.ErrNotFound) {
		return nil, core.ErrModelNotFound
	}
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, fmt.Errorf("decoding %s: %w", p, err))
	}
	return FromState(st), nil
}

// LoadOrNew returns the stored predictor or a fresh one with the given
// learning rate when none exists.
func (s *Store) LoadOrNew(ctx context.Context, symbol string, rate float64) (*Predictor, error) {
	p, err := s.Load(ctx, symbol)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, core.ErrModelNotFound) {
		s.logger.Debug("no stored model, starting fresh", zap.String("symbol", symbol))
		return NewWithRate(rate), nil
	}
	return nil, err
}

// Save writes the predictor state for symbol.
func (s *Store) Save(ctx context.Context, symbol string, p *Predictor) error {
	data, err := json.MarshalIndent(p.State(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model state: %w", err)
	}
	if err := s.storage.Write(ctx, ModelPath(symbol), data); err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	s.logger.Debug("model saved",
		zap.String("symbol", symbol),
		zap.Int("samples", p.Samples()),
	)
	return nil
}

// Symbols lists the symbols with stored state.
func (s *Store) Symbols(ctx context.Context) ([]string, error) {
	paths, err := s.storage.List(ctx, modelPrefix)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	symbols := make([]string, 0, len(paths))
	for _, p := range paths {
		if name, ok := strings.CutSuffix(path.Base(p), ".json"); ok {
			symbols = append(symbols, name)
		}
	}
	return symbols, nil
}

// Delete drops the stored state for symbol so the next cycle starts fresh.
func (s *Store) Delete(ctx context.Context, symbol string) error {
	if err := s.storage.Delete(ctx, ModelPath(symbol)); err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	s.logger.Info("model reset", zap.String("symbol", symbol))
	return nil
}
