// Package app wires the configuration, store, services and HTTP server
// together and runs them until the process is asked to stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/config"
	"github.com/yukikurage/daily-planner-api/internal/database"
	"github.com/yukikurage/daily-planner-api/internal/logging"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/routes"
	"github.com/yukikurage/daily-planner-api/internal/services"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *gorm.DB
	router *gin.Engine
}

// New connects to the store, migrates it and builds the router. The caller
// owns the returned App and must call Run or Close.
func New(cfg *config.Config, logger *logging.SlogLogger) (*App, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg, logger.Slog())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewItemRepository[models.Task](db)
	noteRepo := repository.NewItemRepository[models.Note](db)

	router := routes.SetupRouter(routes.Deps{
		DB:             db,
		Logger:         logger,
		Tokens:         tokens,
		AuthService:    services.NewAuthService(userRepo, tokens),
		TaskService:    services.NewItemService(taskRepo),
		NoteService:    services.NewItemService(noteRepo),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

// Handler exposes the router, mainly for tests.
func (app *App) Handler() http.Handler {
	return app.router
}

// Run serves HTTP on the configured port until ctx is cancelled or the
// process receives SIGINT/SIGTERM, then drains in-flight requests and closes
// the connection pool.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.Addr())
	if err != nil {
		_ = app.Close()
		return fmt.Errorf("listen on %s: %w", app.config.Addr(), err)
	}
	return app.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Handler:           app.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "server starting", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (app *App) Close() error {
	return database.Close(app.db)
}
