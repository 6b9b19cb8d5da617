// Package kvstore provides the session-scoped, string-keyed storage both
// widgets persist their state in.
//
// A session survives process restarts (the terminal equivalent of a page
// reload) as long as the same session id is used, and ends when Clear is
// called or the backend expires it.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has no value in the session.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a session-scoped key/value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key of the session.
	Clear(ctx context.Context) error

	// Close releases the underlying resources.
	Close() error
}

// Backend names a Store implementation selectable from configuration.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend    Backend
	SessionID  string
	SQLitePath string
	RedisAddr  string
	SessionTTL int // seconds; 0 means no expiry
}

// Open builds the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.SessionID == "" {
		return nil, fmt.Errorf("opening %s store: empty session id", opts.Backend)
	}

	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath, opts.SessionID)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.SessionID, opts.SessionTTL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
