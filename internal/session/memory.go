package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/sjc-hospitality/hestia-bot/internal/language"
)

// DefaultCapacity bounds the memory store when no capacity is configured.
const DefaultCapacity = 10000

// MemoryStore keeps preferences in an expiring LRU.
// Entries are lost on restart.
type MemoryStore struct {
	cache *expirable.LRU[string, language.Tag]
}

// NewMemoryStore creates an LRU store holding at most capacity users.
// A non-positive ttl disables expiry.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, language.Tag](capacity, nil, ttl),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, userID string) (language.Tag, bool, error) {
	lang, ok := s.cache.Get(userID)
	return lang, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, userID string, lang language.Tag) error {
	s.cache.Add(userID, lang)
	return nil
}

// Len implements Store.
func (s *MemoryStore) Len(context.Context) (int, error) {
	return s.cache.Len(), nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.cache.Purge()
	return nil
}
