package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable through RUNORDER_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Config captures environment driven configuration values for the running-order service.
type Config struct {
	HTTPPort        int
	Storage         string
	SQLiteDSN       string
	DocumentDir     string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		HTTPPort:        8080,
		Storage:         StorageSQLite,
		SQLiteDSN:       "file:runorder.db",
		DocumentDir:     "documents",
		LogLevel:        slog.LevelInfo,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load parses configuration values from the current process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom parses configuration values through getenv, applying defaults for
// unset variables and reporting every invalid variable at once.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()
	invalid := make([]string, 0, 4)

	value := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}

	if portValue := value("RUNORDER_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "RUNORDER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if storage := value("RUNORDER_STORAGE"); storage != "" {
		switch strings.ToLower(storage) {
		case StorageSQLite, StorageFile:
			cfg.Storage = strings.ToLower(storage)
		default:
			invalid = append(invalid, "RUNORDER_STORAGE")
		}
	}

	if dsn := value("RUNORDER_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if dir := value("RUNORDER_DOCUMENT_DIR"); dir != "" {
		cfg.DocumentDir = dir
	}

	if levelValue := value("RUNORDER_LOG_LEVEL"); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "RUNORDER_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if timeoutValue := value("RUNORDER_SHUTDOWN_TIMEOUT"); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "RUNORDER_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
