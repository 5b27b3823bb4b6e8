package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/running-order/internal/persistence"
	"github.com/example/running-order/internal/persistence/file"
	"github.com/example/running-order/internal/persistence/sqlite"
)

// SQLiteHarness provides document storage backed by a temporary, migrated
// SQLite database.
type SQLiteHarness struct {
	Storage *sqlite.Storage

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "runorder.db")
	storage, err := sqlite.Open(sqlite.DefaultConfig("file:"+path), nil)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage: storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// NewFileStore returns a file store rooted in a temporary directory.
func NewFileStore(tb testing.TB) *file.Storage {
	tb.Helper()

	storage, err := file.Open(filepath.Join(tb.TempDir(), "documents"), nil)
	if err != nil {
		tb.Fatalf("failed to open file storage: %v", err)
	}
	return storage
}

// DocumentStores returns one fresh instance of every repository
// implementation, keyed by a short name for subtests.
func DocumentStores(tb testing.TB) map[string]persistence.DocumentRepository {
	tb.Helper()
	return map[string]persistence.DocumentRepository{
		"sqlite": NewSQLiteHarness(tb).Storage,
		"file":   NewFileStore(tb),
	}
}
