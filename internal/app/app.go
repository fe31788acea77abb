package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sundayezeilo/pagecounts/internal/config"
	"github.com/sundayezeilo/pagecounts/internal/counter"
	"github.com/sundayezeilo/pagecounts/internal/counter/memstore"
	"github.com/sundayezeilo/pagecounts/internal/counter/pgstore"
	"github.com/sundayezeilo/pagecounts/internal/counter/redisstore"
	"github.com/sundayezeilo/pagecounts/internal/counter/sheetstore"
	"github.com/sundayezeilo/pagecounts/internal/server"
)

// App holds the application dependencies and configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Server  *server.Server
	Handler *counter.Handler

	dbPool      *pgxpool.Pool
	redisClient redis.UniversalClient
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"store_driver", string(cfg.Store.Driver),
	)

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	store, err := app.buildStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s store: %w", cfg.Store.Driver, err)
	}

	svc := counter.NewService(store, &counter.ServiceConfig{Logger: logger})
	handler := counter.NewHandler(counter.HandlerConfig{
		Service:    svc,
		Logger:     logger,
		AdminToken: cfg.Admin.ResetToken,
	})

	app.Handler = handler
	app.Server = server.New(cfg, logger, handler)

	logger.Info("application initialized", "port", cfg.Server.Port)

	return app, nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting", "port", a.Config.Server.Port)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.dbPool != nil {
		a.dbPool.Close()
		a.Logger.Info("database connection closed")
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.Logger.Warn("failed to close redis client", "error", err.Error())
		} else {
			a.Logger.Info("redis connection closed")
		}
	}

	return nil
}

// buildStore constructs the counter store selected by STORE_DRIVER.
// Connection-owning clients are kept on the App for Shutdown.
func (a *App) buildStore(ctx context.Context) (counter.Store, error) {
	cfg := a.Config

	switch cfg.Store.Driver {
	case config.DriverMemory:
		a.Logger.Warn("using in-memory store, counts are lost on restart")
		return memstore.New(), nil

	case config.DriverPostgres:
		pool, err := connectDatabase(ctx, cfg, a.Logger)
		if err != nil {
			return nil, err
		}
		a.dbPool = pool

		store := pgstore.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		a.redisClient = client

		a.Logger.Info("redis connection established", "addr", cfg.Redis.Addr)
		return redisstore.New(client, cfg.Redis.KeyPrefix), nil

	case config.DriverSheets:
		store, err := sheetstore.New(ctx, sheetstore.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			SheetName:       cfg.Sheets.SheetName,
			CredentialsFile: cfg.Sheets.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSheet(ctx); err != nil {
			return nil, err
		}

		a.Logger.Info("sheets store ready",
			"spreadsheet_id", cfg.Sheets.SpreadsheetID,
			"sheet", cfg.Sheets.SheetName,
		)
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
