package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sjc-hospitality/hestia-bot/internal/language"
)

const redisKeyPrefix = "session:lang:"

// RedisStore shares preferences between replicas. Expiry is delegated to
// Redis key TTLs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisStoreFromURL parses a redis:// URL, connects and pings.
func NewRedisStoreFromURL(ctx context.Context, rawURL string, ttl time.Duration) (*RedisStore, error) {
	if rawURL == "" {
		return nil, errors.New("session: redis url is required")
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: ping redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, userID string) (language.Tag, bool, error) {
	val, err := s.client.Get(ctx, redisKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session: load language: %w", err)
	}
	lang, ok := language.Parse(val)
	return lang, ok, nil
}

// Set implements Store. A non-positive TTL stores the key without expiry.
func (s *RedisStore) Set(ctx context.Context, userID string, lang language.Tag) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, redisKey(userID), lang.String(), ttl).Err(); err != nil {
		return fmt.Errorf("session: persist language: %w", err)
	}
	return nil
}

// Len implements Store by scanning the key prefix.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("session: scan keys: %w", err)
	}
	return n, nil
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(userID string) string {
	return redisKeyPrefix + userID
}
