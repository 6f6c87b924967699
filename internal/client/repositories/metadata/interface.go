// Package metadata persists small client-side key/value state in SQLite,
// most importantly the verified vault key.
package metadata

import (
	"context"
	"errors"
)

var ErrEmptyName = errors.New("metadata name must not be empty")

// Repository is a name/value view of the metadata table.
type Repository interface {
	// Get returns the value and whether the entry exists.
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string) error
	// Delete removes the named entries. Absent names are ignored.
	Delete(ctx context.Context, names ...string) error
}
