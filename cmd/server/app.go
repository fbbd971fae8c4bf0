package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lexvault/lexvault-api/internal/api"
	"github.com/lexvault/lexvault-api/internal/api/shared"
	"github.com/lexvault/lexvault-api/internal/config"
	"github.com/lexvault/lexvault-api/internal/platform/audio"
	"github.com/lexvault/lexvault-api/internal/review"
	"github.com/lexvault/lexvault-api/internal/review/morph"
	"github.com/lexvault/lexvault-api/internal/srs"
	"github.com/lexvault/lexvault-api/internal/store"
)

// application holds the assembled dependencies of the running server.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	manager *review.Manager
}

// newApplication wires the full dependency graph: database, migrations,
// scheduler, and the review session manager.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := store.MigrateUp(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	wordStore := store.NewPostgresWordStore(db, logger)

	scheduler := srs.NewScheduler(&srs.Params{
		RetentionTarget:   cfg.Review.RetentionTarget,
		FuzzThresholdDays: cfg.Review.FuzzThresholdDays,
		FuzzRatio:         cfg.Review.FuzzRatio,
	}, nil)

	proficiency := srs.NewDefaultProficiencyParams()
	proficiency.FirstCorrectFloor = cfg.Review.FirstCorrectFloor

	deps := review.Deps{
		Scheduler:   scheduler,
		Proficiency: proficiency,
		Analyzer:    morph.NewRuleAnalyzer(),
		Store:       review.NewStoreProgress(wordStore),
		Audio:       audio.NewHTTPPlayer(cfg.Audio.TTSBaseURL, nil, logger),
	}

	manager := review.NewManager(wordStore, deps, cfg.Review.BatchSize, logger)

	return &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		manager: manager,
	}, nil
}

// setupDatabase opens the connection pool and verifies connectivity.
func setupDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}

// setupRouter configures the application router with middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(traceMiddleware)

	sessionHandler := api.NewSessionHandler(app.manager)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/sessions", sessionHandler.Routes())
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// traceMiddleware attaches a trace ID to every request context.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(shared.SetTraceID(r.Context())))
	})
}

// startHTTPServer runs the server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: router,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("Server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("Shutting down server...")
	case <-serverCtx.Done():
		app.logger.Info("Server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.cleanup()

	app.logger.Info("Server shutdown completed")
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", "error", err)
	}
}
