package app

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

	httpapi "github.com/peoplepulse/peoplepulse/internal/hr/http"
	"github.com/peoplepulse/peoplepulse/internal/hr/service"
	"github.com/peoplepulse/peoplepulse/internal/hr/store"
	"github.com/peoplepulse/peoplepulse/internal/hr/store/drivers/postgres"
	"github.com/peoplepulse/peoplepulse/internal/hr/store/drivers/sqlite"
	"github.com/peoplepulse/peoplepulse/internal/hr/upload"
	"github.com/peoplepulse/peoplepulse/pkg/slogx"
)

// Application wires the store, services, and HTTP server together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	uploads *upload.Store

	tokenService        *service.TokenService
	accountService      *service.AccountService
	jobService          *service.JobService
	applicationService  *service.ApplicationService
	housekeepingService *service.Housekeeping

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. The store
// must be reachable; a dead database is a startup failure, not a degraded
// mode.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "peoplepulse-api",
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize upload store: %w", err)
	}
	app.uploads = uploads

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if err := app.housekeepingService.Start(); err != nil {
		return fmt.Errorf("failed to start housekeeping: %w", err)
	}

	app.logger.Info("api starting",
		"port", app.cfg.Port,
		"env", app.cfg.Env,
		"db_driver", app.cfg.DBDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains outstanding requests, stops housekeeping, and closes the
// store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down api...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("api stopped")
	return nil
}

// initDatabase opens the configured store driver and applies migrations.
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.DBDriver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), app.cfg.DBConnTimeout+3*time.Second)
		defer cancel()
		db, err = postgres.NewStore(ctx, postgres.Config{
			URL:             app.cfg.PostgresURL(),
			MaxConns:        app.cfg.DBMaxConns,
			AcquireTimeout:  app.cfg.DBConnTimeout,
			MaxConnIdleTime: app.cfg.DBIdleTimeout,
		})
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DBFile)
		db, err = sqlite.NewStore(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", app.cfg.DBDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.tokenService = service.NewTokenService(
		[]byte(app.cfg.JWTSecret),
		app.cfg.JWTIssuer,
		app.cfg.JWTExpiresIn,
	)
	app.accountService = service.NewAccountService(app.db, app.tokenService)
	app.jobService = service.NewJobService(app.db)
	app.applicationService = service.NewApplicationService(app.db)
	app.housekeepingService = service.NewHousekeeping(
		app.db,
		app.uploads,
		app.logger,
		app.cfg.HousekeepingSchedule,
		app.cfg.HousekeepingMinAge,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokenService,
		app.db,
		app.logger,
		app.cfg.Env,
		app.cfg.FrontendURL,
	)

	router.AccountService = app.accountService
	router.JobService = app.jobService
	router.ApplicationService = app.applicationService
	router.Uploads = app.uploads
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
