// Package server initializes and runs the main application server: it opens
// the document store (seeding it on first run), wires the domain services
// and starts the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dkozel/shopfloor/internal/docstore"
	"github.com/dkozel/shopfloor/internal/logging"
	"github.com/dkozel/shopfloor/internal/server/config"
	"github.com/dkozel/shopfloor/internal/server/httpapi"
	"github.com/dkozel/shopfloor/internal/server/machines"
	"github.com/dkozel/shopfloor/internal/server/seed"
	"github.com/dkozel/shopfloor/internal/server/tasks"
	"github.com/dkozel/shopfloor/internal/server/users"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	store          *docstore.Store
	userService    *users.Service
	taskService    *tasks.Service
	machineService *machines.Service
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	store, err := docstore.Open(ctx, cfg.DataFilePath,
		docstore.WithSeed(seed.Bootstrap(cfg.BcryptCost)))
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	us := users.NewService(store, cfg)
	ts := tasks.NewService(store)
	ms := machines.NewService(store)

	return &App{
		config:         cfg,
		logger:         logger,
		store:          store,
		userService:    us,
		taskService:    ts,
		machineService: ms,
	}, nil
}

func newLogger(format string) (logging.Logger, error) {
	if format == "dev" {
		return logging.NewDevelopmentLogger()
	}
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	router := httpapi.NewRouter(app.logger, app.userService, app.taskService, app.machineService, app.config.SecretKey)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP, "store", app.store.Path())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
