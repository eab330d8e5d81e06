package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// WAL mode is configured in New.
func InitSchema(ctx context.Context, db *sql.DB) error {
	return createSessionLanguagesTable(ctx, db)
}

func createSessionLanguagesTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS session_languages (
		user_id TEXT PRIMARY KEY,
		language TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_session_languages_updated_at ON session_languages(updated_at);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create session_languages table: %w", err)
	}

	return nil
}
