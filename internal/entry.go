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
	"golang.org/x/sync/errgroup"

	"github.com/caselink-za/caselink/internal/api"
	"github.com/caselink-za/caselink/internal/cache"
	"github.com/caselink-za/caselink/internal/fetch"
	"github.com/caselink-za/caselink/internal/mcpserver"
	"github.com/caselink-za/caselink/internal/models"
	"github.com/caselink-za/caselink/internal/search"
	"github.com/caselink-za/caselink/internal/sources"
	"github.com/caselink-za/caselink/internal/sse"
)

// Version is the build version, overridable at link time.
var Version = "dev"

// Run starts the HTTP service with the given options.
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
		slog.Bool("commercial_enabled", cfg.Sources.CommercialProxyURL != ""),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	srcs := buildSources(cfg, logger)

	// SSE broker: broadcasts freshly indexed cases to subscribers.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	eng := search.NewEngine(store, srcs,
		search.WithMaxConcurrency(cfg.Search.MaxConcurrency),
		search.WithLogger(logger),
		search.WithNotify(func(records []models.CaseRecord) {
			broker.PublishIndexed(records)
		}),
	)

	apiRouter := api.NewRouter(eng, srcs, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, Version)

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

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the search tools over MCP stdio instead of HTTP. Logs go
// to stderr so stdout stays clean for the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	srcs := buildSources(cfg, logger)
	eng := search.NewEngine(store, srcs,
		search.WithMaxConcurrency(cfg.Search.MaxConcurrency),
		search.WithLogger(logger),
	)

	return mcpserver.New(eng, srcs).ServeStdio()
}

// openStore opens the SQLite cache, or returns nil when caching is
// disabled by config.
func openStore(cfg *Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.SQLite.Path == "" {
		logger.Warn("no sqlite path configured, running without cache")
		return nil, nil
	}
	db, err := cache.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	return db, nil
}

// buildSources assembles the adapter list in fixed priority order:
// earlier adapters win URL collisions during deduplication.
func buildSources(cfg *Config, logger *slog.Logger) []sources.Source {
	client := fetch.NewClient(fetch.Config{
		Timeout:      time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		MaxRetries:   cfg.Fetch.MaxRetries,
		RetryBackoff: time.Duration(cfg.Fetch.RetryBackoffMS) * time.Millisecond,
		MinInterval:  time.Duration(cfg.Fetch.MinIntervalMS) * time.Millisecond,
		MaxInFlight:  int64(cfg.Fetch.MaxInFlight),
		UserAgent:    cfg.Fetch.UserAgent,
	}, logger)

	return []sources.Source{
		sources.NewConcourt(client, cfg.Sources.ConcourtURL, logger),
		sources.NewSCA(client, cfg.Sources.SCAURL, logger),
		sources.NewZACC(client, cfg.Sources.ZACCURL, logger),
		sources.NewCommercial(client, cfg.Sources.CommercialProxyURL, logger),
	}
}
