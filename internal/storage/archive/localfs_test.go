// internal/storage/archive/localfs_test.go
package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Storage = (*LocalFS)(nil)

func newLocalFS(t *testing.T) (*LocalFS, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalFS(dir)
	require.NoError(t, err)
	return store, dir
}

func TestLocalFS_WriteRead(t *testing.T) {
	store, dir := newLocalFS(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "models/AAPL.json", []byte(`{"samples":3}`)))

	got, err := store.Read(ctx, "models/AAPL.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"samples":3}`, string(got))

	_, err = os.Stat(filepath.Join(dir, "models", "AAPL.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestLocalFS_ReadMissing(t *testing.T) {
	store, _ := newLocalFS(t)

	_, err := store.Read(context.Background(), "models/NOPE.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalFS_List(t *testing.T) {
	store, dir := newLocalFS(t)
	ctx := context.Background()

	for _, p := range []string{"models/MSFT.json", "models/AAPL.json", "reports/latest.csv"} {
		require.NoError(t, store.Write(ctx, p, []byte("x")))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "GOOG.json.tmp"), []byte("partial"), 0644))

	paths, err := store.List(ctx, "models")
	require.NoError(t, err)
	assert.Equal(t, []string{"models/AAPL.json", "models/MSFT.json"}, paths)

	paths, err = store.List(ctx, "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLocalFS_DeleteIsIdempotent(t *testing.T) {
	store, _ := newLocalFS(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "models/TSLA.json", []byte("x")))
	require.NoError(t, store.Delete(ctx, "models/TSLA.json"))
	require.NoError(t, store.Delete(ctx, "models/TSLA.json"))

	_, err := store.Read(ctx, "models/TSLA.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalFS_PathStaysUnderRoot(t *testing.T) {
	store, dir := newLocalFS(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "../../escape.txt", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err, "dot-dot segments should resolve inside the root")
}
