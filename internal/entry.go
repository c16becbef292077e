// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hearthhq/hearth/internal/api"
	"github.com/hearthhq/hearth/internal/archive"
	"github.com/hearthhq/hearth/internal/directory"
	"github.com/hearthhq/hearth/internal/household"
	"github.com/hearthhq/hearth/internal/insights"
	"github.com/hearthhq/hearth/internal/reconcile"
	"github.com/hearthhq/hearth/internal/sse"
	"github.com/hearthhq/hearth/internal/storage"
	"github.com/hearthhq/hearth/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Open the store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Archive files, if configured.
	var archiveFS *storage.FS
	if cfg.Archive.Enabled() {
		if err := os.MkdirAll(cfg.Archive.Path, 0o755); err != nil {
			return fmt.Errorf("create archive dir: %w", err)
		}
		archiveFS, err = storage.NewFS(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("init archive storage: %w", err)
		}
		if err := archive.Sync(db, archiveFS, logger); err != nil {
			logger.Warn("initial archive sync failed", slog.String("error", err.Error()))
		}
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Insight generation.
	var gen insights.Generator = insights.Disabled{}
	if cfg.Insights.Provider == InsightsOpenAI {
		gen = insights.NewOpenAI(cfg.Insights.APIKey, cfg.Insights.Model)
	}

	// Build household service and router.
	svc := household.NewService(db, broker)
	apiRouter := api.NewRouter(svc, db, gen, cfg.Auth.AuthEnabled(), cfg.Auth.Tokens, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus metrics.
	r.Handle("/metrics", promhttp.Handler())

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Archive watcher, when enabled.
	if archiveFS != nil && cfg.Archive.Watch {
		g.Go(func() error {
			return archive.Watch(gCtx, db, archiveFS, cfg.Archive.Path, logger)
		})
	}

	// Reconciliation workers against the profile directory.
	if cfg.Directory.BaseURL != "" {
		worker := reconcile.NewWorker(db, directory.NewHTTP(cfg.Directory.BaseURL), logger)
		rescan := time.Duration(cfg.Directory.RescanSeconds) * time.Second
		g.Go(func() error {
			worker.Manage(gCtx, rescan)
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		broker.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
