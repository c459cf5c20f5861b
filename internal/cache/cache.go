package cache

import (
	"context"
	"time"
)

// Cache is a byte-level key/value store with per-key expiration.
// Result caches that need a shared backend (Valkey) are layered on top of it.
type Cache interface {
	// Get retrieves a value; a missing key returns nil data and nil error
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with expiration (0 means no expiration)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Exists checks if a key is present
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases the underlying connection
	Close() error

	// Health checks backend health
	Health(ctx context.Context) error
}

// CacheError represents a cache operation error
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	return "cache " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
