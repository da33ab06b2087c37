package storage

import "errors"

// ErrNotFound is returned by KV.Get when no value is stored under the key
var ErrNotFound = errors.New("key not found")

// KV is the persistence port: a synchronous text store addressed by key.
// The habit collection is kept as a single JSON blob under one key.
type KV interface {
	// Lifecycle
	Open() error
	Close() error

	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error

	// Location describes where the data lives (file path or connection target)
	Location() string
}
