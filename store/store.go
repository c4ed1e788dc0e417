// Package store persists the application state as an opaque blob under a key.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

// ErrCorrupt is wrapped by the errors of a store whose own data cannot be read.
var ErrCorrupt = errors.New("corrupt store")

// Store is a key-value store of opaque blobs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the store for backend: "memory", "file" (path is the file) or
// "sqlite" (path is the database).
func Open(backend, path string) (Store, error) {
	switch backend {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(path), nil
	case "sqlite":
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
