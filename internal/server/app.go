// Package server initializes and runs the application: it opens the
// database, applies migrations, wires storage and services, and starts the
// HTTP API alongside the daily orphan-file sweeper.
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

	"noticeboard/internal/logging"
	"noticeboard/internal/server/config"
	"noticeboard/internal/server/httpapi"
	"noticeboard/internal/server/repositories/repomanager"
	"noticeboard/internal/server/services"
	"noticeboard/internal/server/sweeper"
	"noticeboard/internal/storage"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	api     *httpapi.Server
	sweeper *sweeper.Sweeper
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs := storage.NewFsStore()
	if err := blobs.EnsureDir(cfg.UploadRoot); err != nil {
		return nil, fmt.Errorf("upload root error: %w", err)
	}

	noticeService := services.NewNoticeService(db, rm, blobs, cfg.UploadRoot, logger)
	userService := services.NewUserService(db, rm, blobs, cfg.UploadRoot, logger)

	api := httpapi.New(cfg.EndpointAddr, noticeService, userService, logger, cfg.ShutdownTimeout)
	sw := sweeper.New(db, rm, blobs, cfg.UploadRoot, logger)

	return &App{config: cfg, logger: logger, db: db, api: api, sweeper: sw}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr, "upload_root", app.config.UploadRoot)

	app.initSignalHandler(cancelFunc)

	hour, minute, err := config.ParseSweepTime(app.config.SweepTime)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx, hour, minute)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.api.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server stopped", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	return nil
}
