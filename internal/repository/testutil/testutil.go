package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"lingovibe/backend/internal/db"
	"lingovibe/backend/internal/repository"
)

// NewTestDB opens a migrated sqlite database in a temp dir.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewBadgerRepo opens an in-memory badger settings repository.
func NewBadgerRepo(t *testing.T) repository.SettingsRepository {
	t.Helper()
	repo, err := repository.OpenBadgerSettingsRepository(repository.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
