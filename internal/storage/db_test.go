package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNew_FileSystemDatabase tests database creation with file system persistence
func TestNew_FileSystemDatabase(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	ctx := context.Background()
	db, err := New(ctx, dbPath, 24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("Database file not created: %s", dbPath)
	}

	if err := db.SaveSessionLanguage(ctx, "psid-1", "tagalog"); err != nil {
		t.Fatalf("SaveSessionLanguage failed: %v", err)
	}

	got, err := db.GetSessionLanguage(ctx, "psid-1")
	if err != nil {
		t.Fatalf("GetSessionLanguage failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected row, got nil")
		return
	}
	if got.Language != "tagalog" {
		t.Errorf("Expected language tagalog, got %s", got.Language)
	}
}

// TestNew_NestedDirectory tests database creation with nested directory path
func TestNew_NestedDirectory(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "sub1", "sub2", "test.db")

	db, err := New(context.Background(), dbPath, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}
}

func TestSessionLanguage_Upsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := NewTestDB(ctx)
	if err != nil {
		t.Fatalf("NewTestDB: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.SaveSessionLanguage(ctx, "u", "bisaya"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveSessionLanguage(ctx, "u", "english"); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.GetSessionLanguage(ctx, "u")
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Language != "english" {
		t.Errorf("Expected english, got %s", got.Language)
	}

	count, err := db.CountSessionLanguages(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}
}

func TestSessionLanguage_Missing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := NewTestDB(ctx)
	if err != nil {
		t.Fatalf("NewTestDB: %v", err)
	}
	defer func() { _ = db.Close() }()

	got, err := db.GetSessionLanguage(ctx, "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil, got %+v", got)
	}
}

func TestSessionLanguage_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := New(ctx, MemoryPath, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = db.Close() }()

	stale := time.Now().Add(-2 * time.Hour).Unix()
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO session_languages (user_id, language, updated_at) VALUES (?, ?, ?)`,
		"old", "tagalog", stale); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.SaveSessionLanguage(ctx, "new", "bisaya"); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.GetSessionLanguage(ctx, "old")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("Expected expired row to be hidden, got %+v", got)
	}

	deleted, err := db.DeleteExpiredSessionLanguages(ctx)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted row, got %d", deleted)
	}

	count, err := db.CountSessionLanguages(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 remaining row, got %d", count)
	}
}
