package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/running-order/internal/persistence"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "runorder.db")
	storage, err := Open(DefaultConfig(dsn), nil)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}

	t.Cleanup(func() {
		_ = storage.Close()
	})

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return storage
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	current := time.Date(2022, time.November, 20, 16, 0, 0, 0, time.UTC)
	storage.now = func() time.Time { return current }

	if err := storage.PutDocument(ctx, "opening-match", []byte(`{"dataVersion":2}`)); err != nil {
		t.Fatalf("PutDocument failed: %v", err)
	}

	body, err := storage.GetDocument(ctx, "opening-match")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if string(body) != `{"dataVersion":2}` {
		t.Fatalf("unexpected body %q", body)
	}

	current = current.Add(time.Hour)
	if err := storage.PutDocument(ctx, "opening-match", []byte(`{"dataVersion":2,"categories":[]}`)); err != nil {
		t.Fatalf("PutDocument overwrite failed: %v", err)
	}

	infos, err := storage.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 document, got %d", len(infos))
	}
	if !infos[0].UpdatedAt.Equal(current) {
		t.Fatalf("expected updated_at %s, got %s", current, infos[0].UpdatedAt)
	}
	if infos[0].Size != len(`{"dataVersion":2,"categories":[]}`) {
		t.Fatalf("unexpected size %d", infos[0].Size)
	}

	if err := storage.DeleteDocument(ctx, "opening-match"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if _, err := storage.GetDocument(ctx, "opening-match"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := storage.DeleteDocument(ctx, "opening-match"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestListDocumentsOrderedByKey(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	for _, key := range []string{"match-3", "match-1", "match-2"} {
		if err := storage.PutDocument(ctx, key, []byte(`{}`)); err != nil {
			t.Fatalf("PutDocument(%s) failed: %v", key, err)
		}
	}

	infos, err := storage.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	var keys []string
	for _, info := range infos {
		keys = append(keys, info.Key)
	}
	want := []string{"match-1", "match-2", "match-3"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
}

func TestRejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)

	for _, key := range []string{"", "../escape", ".hidden", "a/b"} {
		if err := storage.PutDocument(ctx, key, []byte(`{}`)); !errors.Is(err, persistence.ErrInvalidKey) {
			t.Fatalf("PutDocument(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	storage := newTestStorage(t)

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := Open(Config{}, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestDataSourceAppendsPragmas(t *testing.T) {
	cfg := DefaultConfig("file:runorder.db?cache=shared")
	got := cfg.dataSource()
	want := "file:runorder.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Fatalf("dataSource() = %q, want %q", got, want)
	}

	memory := DefaultConfig(":memory:").dataSource()
	if memory != ":memory:?_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)" {
		t.Fatalf("unexpected in-memory data source %q", memory)
	}
}
