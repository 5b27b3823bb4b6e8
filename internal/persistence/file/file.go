// Package file implements the document repository as a directory of JSON
// files, one per key, replaced atomically on every write.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/renameio/v2"

	"github.com/example/running-order/internal/persistence"
)

const extension = ".json"

// Storage is a filesystem-backed persistence.DocumentRepository.
type Storage struct {
	dir    string
	logger *slog.Logger

	mu sync.RWMutex
}

var _ persistence.DocumentRepository = (*Storage)(nil)

// Open returns a Storage rooted at dir, creating the directory if needed.
func Open(dir string, logger *slog.Logger) (*Storage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file: create directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Storage{
		dir:    dir,
		logger: logger.With(slog.String("store", "file"), slog.String("dir", dir)),
	}, nil
}

// Dir returns the directory documents are stored in.
func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) path(key string) (string, error) {
	if err := persistence.ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+extension), nil
}

// GetDocument returns the stored payload for key.
func (s *Storage) GetDocument(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w", key, err)
	}
	return body, nil
}

// PutDocument writes raw to the key's file through a pending temp file that
// is fsynced and renamed over the target.
func (s *Storage) PutDocument(ctx context.Context, key string, raw []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("file: create pending file for %s: %w", key, err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			s.logger.DebugContext(ctx, "cleanup pending document file", slog.String("key", key), slog.Any("error", err))
		}
	}()

	if _, err := pending.Write(raw); err != nil {
		return fmt.Errorf("file: write %s: %w", key, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("file: replace %s: %w", key, err)
	}
	return nil
}

// DeleteDocument removes key, returning persistence.ErrNotFound if absent.
func (s *Storage) DeleteDocument(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return persistence.ErrNotFound
		}
		return fmt.Errorf("file: delete %s: %w", key, err)
	}
	return nil
}

// ListDocuments returns every *.json document with a valid key, ordered by key.
func (s *Storage) ListDocuments(_ context.Context) ([]persistence.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("file: list %s: %w", s.dir, err)
	}

	infos := []persistence.DocumentInfo{}
	for _, entry := range entries {
		key, ok := strings.CutSuffix(entry.Name(), extension)
		if !ok || entry.IsDir() || persistence.ValidateKey(key) != nil {
			continue
		}
		stat, err := entry.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("file: stat %s: %w", entry.Name(), err)
		}
		infos = append(infos, persistence.DocumentInfo{
			Key:       key,
			Size:      int(stat.Size()),
			UpdatedAt: stat.ModTime().UTC(),
		})
	}

	slices.SortFunc(infos, func(a, b persistence.DocumentInfo) int {
		return strings.Compare(a.Key, b.Key)
	})
	return infos, nil
}
