// Package session remembers the last language each user wrote in.
//
// Three backends implement Store: an in-process LRU with TTL (default),
// SQLite for single-instance persistence, and Redis for deployments that run
// more than one replica. Every backend bounds growth, either by capacity or
// by expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sjc-hospitality/hestia-bot/internal/language"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("session: unknown backend")

// Store maps a user ID to the last language the user wrote in.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the stored language and whether an entry exists.
	Get(ctx context.Context, userID string) (language.Tag, bool, error)
	// Set overwrites the entry for userID.
	Set(ctx context.Context, userID string, lang language.Tag) error
	// Len reports the number of live entries.
	Len(ctx context.Context) (int, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	TTL        time.Duration
	Capacity   int
	SQLitePath string
	RedisURL   string
}

// New builds the Store named by opts.Backend.
func New(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(opts.Capacity, opts.TTL), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath, opts.TTL)
	case BackendRedis:
		return NewRedisStoreFromURL(ctx, opts.RedisURL, opts.TTL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
