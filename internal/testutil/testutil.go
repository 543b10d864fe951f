// Package testutil provides shared test helpers for posts directories and catalogs.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/notion2hugo/internal/catalog"
	"github.com/starford/notion2hugo/internal/storage"
)

// TestCatalog opens an in-memory catalog that is closed on cleanup.
func TestCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	db, err := catalog.Open(catalog.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestPostsDir creates a temporary posts directory with a storage.Provider.
func TestPostsDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// QuietLogger discards all log output.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
