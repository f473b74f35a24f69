// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	"stocksim/internal/config"
	"stocksim/internal/quote"
	"stocksim/internal/repository"
	"stocksim/internal/repository/postgres"
	"stocksim/internal/service"
	"stocksim/internal/session"
	"stocksim/internal/util"
	"stocksim/internal/web"
	"stocksim/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Collaborators
	Sessions session.Store
	Quotes   quote.Provider

	// Repositories
	UserRepository   repository.UserRepository
	LedgerRepository repository.LedgerRepository

	// Services
	AuthService    service.AuthService
	TradingService service.TradingService

	// HTTP surface
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Session store: Redis when configured, in-memory otherwise.
	if app.Config.RedisAddr != "" {
		app.Redis = redis.NewClient(&redis.Options{Addr: app.Config.RedisAddr})
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
		app.Sessions = session.NewRedisStore(app.Redis, app.Config.SessionTTL)
		app.Logger.Info("Redis session store initialized.", "addr", app.Config.RedisAddr)
	} else {
		app.Sessions = session.NewMemoryStore(app.Config.SessionTTL)
		app.Logger.Info("In-memory session store initialized.")
	}

	// 5. Quote provider
	switch app.Config.QuoteProvider {
	case config.QuoteProviderStatic:
		app.Quotes = quote.NewStaticProvider(quote.DefaultStaticPrices())
	default:
		app.Quotes = quote.NewYahooProvider()
	}
	app.Logger.Info("Quote provider initialized.", "provider", app.Config.QuoteProvider)

	// 6. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.LedgerRepository = postgres.NewLedgerRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 7. Initialize Services
	app.AuthService = service.NewAuthService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.UserRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.TradingService = service.NewTradingService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.LedgerRepository,
		app.Quotes,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 8. Initialize HTTP Handlers and Router
	handler, err := web.NewHandler(app.AuthService, app.TradingService, app.Sessions, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize web handler: %w", err)
	}
	app.HTTPHandler = web.NewRouter(handler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close Redis connection", "error", err)
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
		app.Logger.Info("Redis connection closed.")
	}
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
