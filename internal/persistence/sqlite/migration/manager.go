package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Manager orchestrates the migration process.
type Manager struct {
	scanner  *Scanner
	executor *Executor
	logger   *slog.Logger
}

// NewManager wires a scanner and executor together. A nil logger discards output.
func NewManager(scanner *Scanner, executor *Executor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		scanner:  scanner,
		executor: executor,
		logger:   logger.With(slog.String("component", "migration")),
	}
}

// Pending returns the migrations that have not been applied yet, in order.
// Applied migrations whose file content changed are reported as
// ErrChecksumMismatch.
func (m *Manager) Pending(ctx context.Context) ([]Migration, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, err
	}

	available, err := m.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan migrations: %w", err)
	}
	applied, err := m.executor.AppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}

	checksums := make(map[int]string, len(applied))
	for _, record := range applied {
		checksums[versionNumber(record.Version)] = record.Checksum
	}

	var pending []Migration
	for _, migration := range available {
		checksum, ok := checksums[versionNumber(migration.Version)]
		if !ok {
			pending = append(pending, migration)
			continue
		}
		if checksum != "" && checksum != migration.Checksum {
			return nil, NewMigrationError(migration.Version, migration.FilePath, "verify checksum", ErrChecksumMismatch)
		}
	}
	return pending, nil
}

// Run applies all pending migrations in version order and returns the
// versions it applied. Execution stops at the first failure.
func (m *Manager) Run(ctx context.Context) ([]string, error) {
	started := time.Now()

	pending, err := m.Pending(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to determine pending migrations", slog.Any("error", err))
		return nil, err
	}
	if len(pending) == 0 {
		m.logger.DebugContext(ctx, "schema up to date")
		return nil, nil
	}

	applied := make([]string, 0, len(pending))
	for i, migration := range pending {
		logger := m.logger.With(
			slog.String("version", migration.Version),
			slog.String("description", migration.Description),
		)
		logger.InfoContext(ctx, "applying migration", slog.Int("position", i+1), slog.Int("pending", len(pending)))

		if err := m.executor.Apply(ctx, migration); err != nil {
			logger.ErrorContext(ctx, "migration failed", slog.Any("error", err))
			return applied, NewMigrationError(migration.Version, migration.FilePath, "execute migration",
				fmt.Errorf("%w: %w", ErrMigrationFailed, err))
		}
		applied = append(applied, migration.Version)
	}

	m.logger.InfoContext(ctx, "migrations completed",
		slog.Int("applied", len(applied)),
		slog.Duration("elapsed", time.Since(started)),
	)
	return applied, nil
}
