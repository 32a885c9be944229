// Package prefs is a small key-value preference store with memory, file and
// redis backends, optional value encryption, typed accessors and change
// notification.
package prefs

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("prefs: store closed")
)

// Store is the backend-agnostic preference store contract. Get reports
// (zero, false, nil) for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// Change describes a single mutation observed through Watch.
type Change struct {
	Key     string
	Value   string
	Deleted bool
}

// Watcher is implemented by stores that support change notification.
type Watcher interface {
	// Watch subscribes to changes of key; an empty key observes every key.
	// The cancel function is idempotent and closes the channel.
	Watch(key string) (<-chan Change, func())
}
