// Package storage implements the flat key-value backends that hold the
// serialized partitions: an in-memory map, a directory of JSON files, and
// a SQLite table.
package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/temple/pkg/types"
)

// Backend stores one opaque value per key. Implementations are safe for
// concurrent use. After Close every method returns types.ErrStoreClosed.
type Backend interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) ([]byte, bool, error)

	// Set replaces the value stored under key. The write is atomic: a
	// concurrent reader sees either the old or the new value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Keys lists every stored key in lexical order.
	Keys() ([]string, error)

	// Close releases backend resources. Close is idempotent.
	Close() error
}

// Watcher is implemented by backends that can report changes made by other
// processes. fn is called with the key that changed until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, fn func(key string)) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidateKey rejects keys that cannot be used as file names or that would
// collide with temp files.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", types.ErrInvalidKey, key)
	}
	return nil
}

// Open creates the backend named by cfg.Backend.
func Open(cfg types.Config, logger zerolog.Logger) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendMemory:
		return NewMemory(), nil
	case types.BackendFiles:
		return OpenFiles(dataDir(cfg), logger)
	case types.BackendSQLite:
		return OpenSQLite(dataDir(cfg), logger)
	default:
		return nil, types.ErrBackendUnknown
	}
}

func dataDir(cfg types.Config) string {
	if cfg.DataDir == "" {
		return "."
	}
	return cfg.DataDir
}
