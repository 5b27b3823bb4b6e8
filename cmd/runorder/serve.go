package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/running-order/internal/application"
	"github.com/example/running-order/internal/config"
	httptransport "github.com/example/running-order/internal/http"
	"github.com/example/running-order/internal/logging"
	"github.com/example/running-order/internal/persistence/file"
	"github.com/example/running-order/internal/persistence/sqlite"
)

func newServeCmd(getenv func(string) string) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the running-order HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFrom(getenv)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.HTTPPort = port
			}
			logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override RUNORDER_HTTP_PORT")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "storage", cfg.Storage, "error", err)
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	service := application.NewProgrammeServiceWithLogger(store, nil, nil, time.Now, logger)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Documents:  httptransport.NewDocumentHandler(service, logger),
		Tools:      httptransport.NewToolHandler(logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// stop releases the shutdown goroutine when ListenAndServe fails on its own.
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	logger.Info("running-order API listening", "addr", server.Addr, "storage", cfg.Storage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		stop()
		<-shutdownErr
		return err
	}

	if err := <-shutdownErr; err != nil {
		logger.Error("failed to shutdown server", "error", err)
		return err
	}
	logger.Info("running-order API stopped")
	return nil
}

// openStore selects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (application.DocumentStore, func() error, error) {
	switch cfg.Storage {
	case config.StorageFile:
		store, err := file.Open(cfg.DocumentDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	case config.StorageSQLite:
		store, err := sqlite.Open(sqlite.DefaultConfig(cfg.SQLiteDSN), logger)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
