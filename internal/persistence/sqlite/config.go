package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// Config holds connection settings for the document store.
type Config struct {
	// DSN is a file path or a "file:" URI understood by modernc.org/sqlite.
	DSN string

	BusyTimeout time.Duration
	JournalMode string // WAL, DELETE, TRUNCATE, ...
	Synchronous string // FULL, NORMAL, OFF

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a configuration with sensible defaults for dsn.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:             dsn,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
		Synchronous:     "NORMAL",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("sqlite: DSN is required")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy timeout must not be negative")
	}
	return nil
}

// dataSource appends the configured pragmas as _pragma query parameters so
// every pooled connection receives them.
func (c Config) dataSource() string {
	var pragmas []string
	if c.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout.Milliseconds()))
	}
	if c.JournalMode != "" && !c.inMemory() {
		pragmas = append(pragmas, fmt.Sprintf("journal_mode(%s)", c.JournalMode))
	}
	if c.Synchronous != "" {
		pragmas = append(pragmas, fmt.Sprintf("synchronous(%s)", c.Synchronous))
	}
	if len(pragmas) == 0 {
		return c.DSN
	}

	var b strings.Builder
	b.WriteString(c.DSN)
	sep := "?"
	if strings.Contains(c.DSN, "?") {
		sep = "&"
	}
	for _, pragma := range pragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(pragma)
		sep = "&"
	}
	return b.String()
}

func (c Config) inMemory() bool {
	return strings.Contains(c.DSN, ":memory:") || strings.Contains(c.DSN, "mode=memory")
}
