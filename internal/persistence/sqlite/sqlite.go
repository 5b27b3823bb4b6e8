// Package sqlite implements the document repository on SQLite via the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/running-order/internal/persistence"
	"github.com/example/running-order/internal/persistence/sqlite/migration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Storage is a SQLite-backed persistence.DocumentRepository.
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ persistence.DocumentRepository = (*Storage)(nil)

// Open connects to the database described by cfg. Call Migrate before use.
func Open(cfg Config, logger *slog.Logger) (*Storage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", cfg.dataSource())
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.inMemory() {
		// each connection to :memory: would see its own database
		maxOpen = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", err)
	}

	return &Storage{
		db:     db,
		logger: logger.With(slog.String("store", "sqlite")),
		now:    time.Now,
	}, nil
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	manager := migration.NewManager(
		migration.NewScanner(migrationFiles, "migrations"),
		migration.NewExecutor(s.db),
		s.logger,
	)
	if _, err := manager.Run(ctx); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// GetDocument returns the stored payload for key.
func (s *Storage) GetDocument(ctx context.Context, key string) ([]byte, error) {
	if err := persistence.ValidateKey(key); err != nil {
		return nil, err
	}

	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get document %s: %w", key, err)
	}
	return body, nil
}

// PutDocument inserts or replaces the payload for key.
func (s *Storage) PutDocument(ctx context.Context, key string, raw []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (key, body, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		key, raw, now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: put document %s: %w", key, err)
	}
	return nil
}

// DeleteDocument removes key, returning persistence.ErrNotFound if absent.
func (s *Storage) DeleteDocument(ctx context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("sqlite: delete document %s: %w", key, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete document %s: %w", key, err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListDocuments returns all stored documents ordered by key.
func (s *Storage) ListDocuments(ctx context.Context) ([]persistence.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, length(body), updated_at FROM documents ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list documents: %w", err)
	}
	defer rows.Close()

	infos := []persistence.DocumentInfo{}
	for rows.Next() {
		var (
			info      persistence.DocumentInfo
			updatedAt string
		)
		if err := rows.Scan(&info.Key, &info.Size, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan document row: %w", err)
		}
		info.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse updated_at for %s: %w", info.Key, err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list documents: %w", err)
	}
	return infos, nil
}
