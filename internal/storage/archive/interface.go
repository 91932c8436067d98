// internal/storage/archive/interface.go
package archive

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when nothing is stored at the path.
var ErrNotFound = errors.New("archive: object not found")

// Storage is a flat blob store for persisted model state. Paths are
// slash-separated and relative to the backend root.
type Storage interface {
	Write(ctx context.Context, path string, data []byte) error
	// Read wraps ErrNotFound when path does not exist.
	Read(ctx context.Context, path string) ([]byte, error)
	// List returns the paths under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes path. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
}
