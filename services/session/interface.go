package session

import (
	"context"
	"time"
)

// Store is a string key/value backend for booking session state. Backends are
// best-effort caches, never a source of truth: callers treat a miss and an
// error the same way.
type Store interface {
	// Get returns the value for key, or "" when absent.
	Get(ctx context.Context, key string) (string, error)
	// Set writes key to value.
	Set(ctx context.Context, key, value string) error
	// Del removes keys.
	Del(ctx context.Context, keys ...string) error
	// Keys lists stored keys matching the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// DefaultTTL bounds how long abandoned booking state lingers in durable backends.
const DefaultTTL = 14 * 24 * time.Hour
