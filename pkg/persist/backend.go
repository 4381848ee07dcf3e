package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend stores raw values by key.
type Backend interface {
	// Get returns the value stored under key. ok is false when there is none.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores or replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// ErrInvalidKey is returned for empty keys and keys the backend cannot
// store safely.
var ErrInvalidKey = errors.New("invalid storage key")

// Open creates a backend by kind. path is a directory for KindFile and a
// database file for KindSQLite; it is ignored for KindMemory.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(kind) {
	case "", KindMemory:
		return NewMemoryBackend(), nil
	case KindFile:
		return NewFileBackend(path)
	case KindSQLite:
		return NewSQLiteBackend(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

func checkKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	return nil
}
