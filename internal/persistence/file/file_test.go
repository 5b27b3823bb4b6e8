package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/running-order/internal/persistence"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := Open(filepath.Join(t.TempDir(), "documents"), nil)
	require.NoError(t, err)
	return storage
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)

	require.NoError(t, storage.PutDocument(ctx, "final", []byte(`{"dataVersion":2}`)))

	body, err := storage.GetDocument(ctx, "final")
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataVersion":2}`, string(body))

	require.NoError(t, storage.PutDocument(ctx, "final", []byte(`{"dataVersion":2,"fanZone":[]}`)))
	body, err = storage.GetDocument(ctx, "final")
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataVersion":2,"fanZone":[]}`, string(body))

	require.NoError(t, storage.DeleteDocument(ctx, "final"))
	_, err = storage.GetDocument(ctx, "final")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.ErrorIs(t, storage.DeleteDocument(ctx, "final"), persistence.ErrNotFound)
}

func TestWritesLeaveNoTempFiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)

	for range 3 {
		require.NoError(t, storage.PutDocument(ctx, "semi-final", []byte(`{}`)))
	}

	entries, err := os.ReadDir(storage.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "semi-final.json", entries[0].Name())
}

func TestListSkipsForeignFiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newTestStorage(t)

	require.NoError(t, storage.PutDocument(ctx, "match-2", []byte(`{}`)))
	require.NoError(t, storage.PutDocument(ctx, "match-1", []byte(`{"a":1}`)))
	require.NoError(t, os.WriteFile(filepath.Join(storage.Dir(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(storage.Dir(), ".hidden.json"), []byte("{}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(storage.Dir(), "archive.json"), 0o755))

	infos, err := storage.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "match-1", infos[0].Key)
	assert.Equal(t, len(`{"a":1}`), infos[0].Size)
	assert.Equal(t, "match-2", infos[1].Key)
}

func TestRejectsPathTraversal(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	err := storage.PutDocument(context.Background(), "../outside", []byte(`{}`))
	assert.ErrorIs(t, err, persistence.ErrInvalidKey)
}

func TestOpenRequiresDirectory(t *testing.T) {
	t.Parallel()

	_, err := Open("  ", nil)
	assert.Error(t, err)
}
