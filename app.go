package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/nasermirzaei89/env"
	"github.com/nasermirzaei89/vidstream/accounts"
	"github.com/nasermirzaei89/vidstream/contents"
	"github.com/nasermirzaei89/vidstream/db/sqlite3"
	"github.com/nasermirzaei89/vidstream/discuss"
	"github.com/nasermirzaei89/vidstream/engage"
	"github.com/nasermirzaei89/vidstream/web"
)

const (
	defaultPort = "8080"
	defaultDSN  = "file:vidstream.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	shutdownTimeout = 10 * time.Second
)

type App struct {
	server *http.Server
	db     *sql.DB
}

func NewApp(ctx context.Context) (*App, error) {
	db, err := sqlite3.NewDB(ctx, env.GetString("DB_DSN", defaultDSN))
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	err = sqlite3.MigrateUp(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Repair the engagement indexes on boot as well; the reconcile
	// subcommand covers out-of-band runs against a live store.
	_, err = sqlite3.NewReconciler(db).Reconcile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile engagement indexes: %w", err)
	}

	userRepo := sqlite3.NewUserRepository(db)
	videoRepo := sqlite3.NewVideoRepository(db)
	tweetRepo := sqlite3.NewTweetRepository(db)
	commentRepo := sqlite3.NewCommentRepository(db)
	engagementRepo := sqlite3.NewEngagementRepository(db)
	resolver := sqlite3.NewResolver(db)

	accountsSvc := accounts.NewService(userRepo)
	contentsSvc := contents.NewService(videoRepo, tweetRepo)
	discussSvc := discuss.NewService(commentRepo, resolver)
	engageSvc := engage.NewService(engagementRepo, resolver)

	handler := web.NewHandler(accountsSvc, contentsSvc, discussSvc, engageSvc)

	server := &http.Server{
		Addr:              net.JoinHostPort(env.GetString("HOST", ""), env.GetString("PORT", defaultPort)),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	app := &App{
		server: server,
		db:     db,
	}

	return app, nil
}

func (app *App) Run(ctx context.Context) error {
	// Handle SIGINT (CTRL+C) gracefully.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	defer func() {
		if app.db != nil {
			err := app.db.Close()
			if err != nil {
				slog.ErrorContext(ctx, "failed to close database", "error", err)
			}
		}
	}()

	errCh := make(chan error, 1)

	go func() {
		slog.InfoContext(ctx, "server listening", "address", app.server.Addr)

		err := app.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := app.server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

func runReconcile(ctx context.Context) error {
	db, err := sqlite3.NewDB(ctx, env.GetString("DB_DSN", defaultDSN))
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	defer func() {
		err := db.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close database", "error", err)
		}
	}()

	report, err := sqlite3.NewReconciler(db).Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("failed to reconcile engagement indexes: %w", err)
	}

	if !report.Changed() {
		slog.InfoContext(ctx, "engagement indexes already match the target shape")
	}

	return nil
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := env.GetString("LOG_LEVEL", "info")
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", levelStr)

		return slog.LevelInfo
	}
}
