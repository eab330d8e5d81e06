package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionLanguage is one persisted language preference.
type SessionLanguage struct {
	UserID    string
	Language  string
	UpdatedAt int64
}

// GetSessionLanguage returns the stored preference for userID.
// Returns nil, nil when there is no unexpired row.
func (db *DB) GetSessionLanguage(ctx context.Context, userID string) (*SessionLanguage, error) {
	query := `SELECT user_id, language, updated_at FROM session_languages WHERE user_id = ? AND updated_at > ?`

	var row SessionLanguage
	err := db.conn.QueryRowContext(ctx, query, userID, db.cutoff()).Scan(&row.UserID, &row.Language, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session language: %w", err)
	}
	return &row, nil
}

// SaveSessionLanguage inserts or replaces the preference for userID.
func (db *DB) SaveSessionLanguage(ctx context.Context, userID, language string) error {
	query := `
		INSERT INTO session_languages (user_id, language, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			language = excluded.language,
			updated_at = excluded.updated_at
	`
	if _, err := db.conn.ExecContext(ctx, query, userID, language, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save session language: %w", err)
	}
	return nil
}

// CountSessionLanguages counts unexpired rows.
func (db *DB) CountSessionLanguages(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_languages WHERE updated_at > ?`, db.cutoff()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count session languages: %w", err)
	}
	return count, nil
}

// DeleteExpiredSessionLanguages removes rows older than the TTL and
// returns how many were deleted.
func (db *DB) DeleteExpiredSessionLanguages(ctx context.Context) (int64, error) {
	if db.ttl <= 0 {
		return 0, nil
	}
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM session_languages WHERE updated_at <= ?`, db.cutoff())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired session languages: %w", err)
	}
	return result.RowsAffected()
}
