// Package store persists the whole todo collection as one blob under a fixed
// key. Backends live in subpackages.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/thehappyredwolf/todo-app/internal/model"
)

// Key is the single key the collection is stored under.
const Key = "todos"

// ErrCorrupt wraps any failure to parse stored content. Callers treat it as
// an empty cache.
var ErrCorrupt = errors.New("cache content is corrupt")

// Cache is an opaque load/save blob store for the full collection.
type Cache interface {
	// Load returns the stored collection. A missing key yields an empty
	// slice and a nil error.
	Load(ctx context.Context) ([]model.Todo, error)
	// Save overwrites the stored collection.
	Save(ctx context.Context, todos []model.Todo) error
	// Clear removes the stored collection.
	Clear(ctx context.Context) error
	Close() error
}

// Corrupt wraps a decode failure so errors.Is(err, ErrCorrupt) holds.
func Corrupt(err error) error {
	return fmt.Errorf("%w: %w", ErrCorrupt, err)
}
