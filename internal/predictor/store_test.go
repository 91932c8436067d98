package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/storage/archive"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	fs, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)
	return NewStore(fs)
}

func TestModelPath(t *testing.T) {
	assert.Equal(t, "models/AAPL.json", ModelPath("AAPL"))
	assert.Equal(t, "models/BTC_USD.json", ModelPath("BTC/USD"))
}

func TestStore_SaveLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := New()
	f := []float64{0.2, 0.1, 0, 0.3, 1}
	p.Train(f, 0.05)

	require.NoError(t, s.Save(ctx, "AAPL", p))

	loaded, err := s.Load(ctx, "AAPL")
	require.NoError(t, err)
	assert.InDelta(t, p.Predict(f), loaded.Predict(f), 1e-12)
	assert.Equal(t, 1, loaded.Samples())
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "MSFT")
	assert.True(t, errors.Is(err, core.ErrModelNotFound))

	p, err := s.LoadOrNew(context.Background(), "MSFT", 0.02)
	require.NoError(t, err)
	assert.Equal(t, 0.02, p.State().LearningRate)
	assert.Equal(t, 0, p.Samples())
}

func TestStore_SymbolsAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	symbols, err := s.Symbols(ctx)
	require.NoError(t, err)
	assert.Empty(t, symbols)

	for _, sym := range []string{"MSFT", "AAPL", "BTC/USD"} {
		require.NoError(t, s.Save(ctx, sym, New()))
	}

	symbols, err = s.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "BTC_USD", "MSFT"}, symbols)

	require.NoError(t, s.Delete(ctx, "AAPL"))
	_, err = s.Load(ctx, "AAPL")
	assert.ErrorIs(t, err, core.ErrModelNotFound)

	symbols, err = s.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC_USD", "MSFT"}, symbols)
}
