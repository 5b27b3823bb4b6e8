package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/running-order/internal/config"
	"github.com/example/running-order/internal/testfixtures"
)

func runCLI(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr, func(key string) string { return env[key] })
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeLegacy(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "programme.json")
	require.NoError(t, os.WriteFile(path, []byte(testfixtures.LegacyPayload), 0o644))
	return path
}

func TestMigrateCommand(t *testing.T) {
	t.Run("writes the canonical document to stdout", func(t *testing.T) {
		path := writeLegacy(t)

		stdout, _, err := runCLI(t, nil, "migrate", path)
		require.NoError(t, err)

		var doc struct {
			DataVersion     int    `json:"dataVersion"`
			SelectedStadium string `json:"selectedStadium"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		assert.Equal(t, 2, doc.DataVersion)
		assert.Equal(t, "al-bayt", doc.SelectedStadium)

		original, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, testfixtures.LegacyPayload, string(original), "input must be untouched without --in-place")
	})

	t.Run("replaces the file in place", func(t *testing.T) {
		path := writeLegacy(t)

		_, stderr, err := runCLI(t, nil, "migrate", "--in-place", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, "v1 -> v2")

		_, stderr, err = runCLI(t, nil, "migrate", "--in-place", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, "v2 -> v2 (steps: none)")
	})

	t.Run("writes to an output file", func(t *testing.T) {
		path := writeLegacy(t)
		out := filepath.Join(t.TempDir(), "canonical.json")

		_, _, err := runCLI(t, nil, "migrate", "-o", out, path)
		require.NoError(t, err)
		raw, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"dataVersion": 2`)
	})

	t.Run("rejects conflicting flags and bad input", func(t *testing.T) {
		path := writeLegacy(t)
		_, _, err := runCLI(t, nil, "migrate", "--in-place", "-o", "x.json", path)
		assert.Error(t, err)

		broken := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
		_, _, err = runCLI(t, nil, "migrate", broken)
		assert.Error(t, err)
	})
}

func TestOrderCommand(t *testing.T) {
	path := writeLegacy(t)

	stdout, _, err := runCLI(t, nil, "order", path)
	require.NoError(t, err)

	pre := strings.Index(stdout, "== Pre-match")
	ht := strings.Index(stdout, "== Half time")
	gates := strings.Index(stdout, "Gates open at Al Bayt Stadium")
	anthems := strings.Index(stdout, "Anthems: Qatar and Bahrain")
	require.True(t, pre >= 0 && ht > pre, stdout)
	assert.Less(t, anthems, gates, "offsets sort before wall-clock times")
	assert.Less(t, gates, ht)

	stdout, _, err = runCLI(t, nil, "order", "--fan-zone", path)
	require.NoError(t, err)
	assert.Less(t, strings.Index(stdout, "Big screen"), strings.Index(stdout, "Fan zone closes"))
}

func TestValidateCommand(t *testing.T) {
	stdout, _, err := runCLI(t, nil, "validate", writeLegacy(t))
	require.NoError(t, err)
	assert.Equal(t, "ok\n", stdout)

	doc := testfixtures.NewDocumentFixture(testfixtures.WithItems(
		testfixtures.NewItem(testfixtures.WithItemID("late"), testfixtures.WithItemTime("whenever")),
	))
	path := filepath.Join(t.TempDir(), "issues.json")
	require.NoError(t, os.WriteFile(path, doc.JSON(), 0o644))

	stdout, _, err = runCLI(t, nil, "validate", path)
	require.ErrorIs(t, err, errDocumentHasIssues)
	assert.Contains(t, stdout, "unrecognized_time\tlate")
}

func TestTimecodeCommand(t *testing.T) {
	stdout, _, err := runCLI(t, nil, "timecode", "HT+00:05:00")
	require.NoError(t, err)
	assert.Equal(t, "band=half-time key=2000300 recognized=true\n", stdout)

	stdout, _, err = runCLI(t, nil, "timecode", "--fan-zone", "T-15")
	require.NoError(t, err)
	assert.Equal(t, "band=before-kickoff key=-15 recognized=true\n", stdout)
}

func TestServeRejectsInvalidEnvironment(t *testing.T) {
	_, _, err := runCLI(t, map[string]string{"RUNORDER_STORAGE": "postgres"}, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUNORDER_STORAGE")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, cfg := range []config.Config{
		{Storage: config.StorageFile, DocumentDir: filepath.Join(t.TempDir(), "docs")},
		{Storage: config.StorageSQLite, SQLiteDSN: "file:" + filepath.Join(t.TempDir(), "runorder.db")},
	} {
		t.Run(cfg.Storage, func(t *testing.T) {
			store, closeStore, err := openStore(ctx, cfg, logger)
			require.NoError(t, err)
			defer func() { require.NoError(t, closeStore()) }()

			require.NoError(t, store.PutDocument(ctx, "probe", []byte(`{}`)))
			infos, err := store.ListDocuments(ctx)
			require.NoError(t, err)
			require.Len(t, infos, 1)
		})
	}

	_, _, err := openStore(ctx, config.Config{Storage: "memory"}, logger)
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := config.Default()
	cfg.HTTPPort = port
	cfg.Storage = config.StorageFile
	cfg.DocumentDir = t.TempDir()
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/documents", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServeReturnsWhenPortIsTaken(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	cfg := config.Default()
	cfg.HTTPPort = listener.Addr().(*net.TCPAddr).Port
	cfg.Storage = config.StorageFile
	cfg.DocumentDir = t.TempDir()
	cfg.ShutdownTimeout = time.Second

	done := make(chan error, 1)
	go func() {
		done <- serve(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the listener failed")
	}
}
