// Package server initializes and runs the session authority: it wires the
// relational store, migrations, the optional login throttle, and the HTTP
// endpoint, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dkarpov/reelmark/internal/logging"
	"github.com/dkarpov/reelmark/internal/server/config"
	"github.com/dkarpov/reelmark/internal/server/httpapi"
	"github.com/dkarpov/reelmark/internal/server/migrations"
	"github.com/dkarpov/reelmark/internal/server/ratelimit"
	"github.com/dkarpov/reelmark/internal/server/repositories/users"
	"github.com/dkarpov/reelmark/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var limiter *ratelimit.LoginLimiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = ratelimit.NewLoginLimiter(client, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow, logger)
	}

	repo := users.NewPostgresRepository(db)
	sessions := services.NewSessionService(repo, limiter, cfg, logger)
	handler := httpapi.NewHandler(sessions, logger)
	server := httpapi.NewServer(cfg.EndpointAddr, handler, logger)

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
