package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"

	"github.com/goliatone/go-credentials"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config credentials.Config
	logger *credentials.SlogLogger
	repo   credentials.RepositoryManager
	server *fiber.App
}

func NewApp(ctx context.Context, cfg credentials.Config) (*App, error) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: credentials.ParseLogLevel(cfg.LogLevel),
	})
	logger := credentials.NewSlogLogger(slog.New(handler)).With("service", "credentiald")

	if cfg.Debug {
		fmt.Println(print.MaybeHighlightJSON(cfg))
	}

	db, err := credentials.OpenDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repo := credentials.NewRepositoryManager(db, credentials.WithRepositoryLogger(logger))
	if err := repo.Validate(); err != nil {
		return nil, err
	}

	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens, err := credentials.NewTokenService(
		[]byte(cfg.JWTSecret),
		append(cfg.TokenServiceOptions(), credentials.WithTokenLogger(logger))...,
	)
	if err != nil {
		repo.Close()
		return nil, err
	}

	manager := credentials.NewIdentityManager(repo.Users(), tokens,
		credentials.WithManagerLogger(logger),
		credentials.WithActivitySink(credentials.LoggerActivitySink{Logger: logger.With("component", "activity")}),
		credentials.WithHashidIDs(cfg.UseHashid),
	)

	server := credentials.NewServer(manager, tokens, credentials.ServerConfig{
		Logger: logger,
		Debug:  cfg.Debug,
	})

	return &App{
		config: cfg,
		logger: logger,
		repo:   repo,
		server: server,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until the context is cancelled or a signal arrives,
// then drains in-flight requests and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	errs := make(chan error, 1)
	go func() {
		app.logger.Info("Starting app...", "address", app.config.Address())
		errs <- app.server.Listen(app.config.Address())
	}()

	var runErr error
	select {
	case runErr = <-errs:
	case <-ctx.Done():
		app.logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
			app.logger.Error("shutdown error", "error", err)
		}
	}

	if err := app.repo.Close(); err != nil {
		app.logger.Error("db close error", "error", err)
	}

	return runErr
}
