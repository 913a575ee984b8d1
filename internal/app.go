// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "xpense-wallet/internal/api"
	"xpense-wallet/internal/api/handler"
	"xpense-wallet/internal/config"
	"xpense-wallet/internal/repository"
	"xpense-wallet/internal/repository/file"
	"xpense-wallet/internal/repository/kv"
	"xpense-wallet/internal/repository/postgres"
	"xpense-wallet/internal/service"
	"xpense-wallet/internal/util"
	"xpense-wallet/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB // Only set for the postgres driver

	// Persistence
	StateStore repository.StateStore

	// Services
	LedgerService service.LedgerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize loads configuration from the environment and initializes all components.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.InitializeWithConfig(ctx, cfg)
}

// InitializeWithConfig initializes all components from an explicit configuration.
func (app *Application) InitializeWithConfig(ctx context.Context, cfg *config.AppConfig) error {
	// 1. Configuration
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "store_driver", cfg.StoreDriver)

	// 3. Open the ledger store
	store, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	app.StateStore = store
	app.Logger.Info("Ledger store initialized.")

	// 4. Initialize Services
	app.LedgerService = service.NewLedgerService(app.StateStore, app.Logger)
	app.Logger.Info("Services initialized.")

	// 5. Initialize HTTP Handlers and Router
	ledgerHandler := handler.NewLedgerHandler(app.LedgerService, app.Logger)
	app.HTTPHandler = router.NewRouter(ledgerHandler, app.Logger, cfg.RequestTimeout)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) openStore(ctx context.Context) (repository.StateStore, error) {
	switch app.Config.StoreDriver {
	case config.StoreDriverMemory:
		return kv.NewStore(kv.NewMemoryKeyValue(), kv.DefaultKey), nil

	case config.StoreDriverPostgres:
		database, err := db.NewPostgresDB(ctx, app.Config.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = database
		app.Logger.Info("Database connection established.")

		store := postgres.NewStateStore(database)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil

	default:
		app.Logger.Info("Using ledger file", "path", app.Config.DataFile)
		return file.NewStore(app.Config.DataFile), nil
	}
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
