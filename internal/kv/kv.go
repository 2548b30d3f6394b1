// Package kv defines the durable on-device key-value store that backs
// guest-mode state. Implementations provide at-least get/set/remove
// semantics with no cross-process locking guarantees.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written
// or has been deleted
var ErrKeyNotFound = errors.New("key not found")

// Store is a durable string key-value store
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
