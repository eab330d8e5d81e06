package session

import (
	"context"
	"fmt"
	"time"

	"github.com/sjc-hospitality/hestia-bot/internal/language"
	"github.com/sjc-hospitality/hestia-bot/internal/storage"
)

// SQLiteStore persists preferences in a local SQLite file.
type SQLiteStore struct {
	db *storage.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string, ttl time.Duration) (*SQLiteStore, error) {
	if path == "" {
		path = storage.MemoryPath
	}
	db, err := storage.New(ctx, path, ttl)
	if err != nil {
		return nil, fmt.Errorf("session: open sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get implements Store. Rows with an unknown language are treated as absent.
func (s *SQLiteStore) Get(ctx context.Context, userID string) (language.Tag, bool, error) {
	row, err := s.db.GetSessionLanguage(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("session: %w", err)
	}
	if row == nil {
		return "", false, nil
	}
	lang, ok := language.Parse(row.Language)
	return lang, ok, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, userID string, lang language.Tag) error {
	if err := s.db.SaveSessionLanguage(ctx, userID, lang.String()); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Len implements Store.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	return s.db.CountSessionLanguages(ctx)
}

// Ping implements Store.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Cleanup deletes expired rows and reports how many were removed.
func (s *SQLiteStore) Cleanup(ctx context.Context) (int64, error) {
	return s.db.DeleteExpiredSessionLanguages(ctx)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
