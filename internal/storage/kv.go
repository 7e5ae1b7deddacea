// Package storage provides key-value persistence and the score store built on
// top of it. The SQLite backend uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store is closed")

// KV is a string key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Close releases the underlying resources.
	Close() error
}
