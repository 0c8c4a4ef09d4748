// Package storage keeps per-session snapshots as opaque values under string
// keys, the server-side counterpart of browser local storage.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a key-value snapshot store. Put overwrites, Delete of a missing key
// is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
