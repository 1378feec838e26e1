package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sundayezeilo/shortlinks/codegen"
	"github.com/sundayezeilo/shortlinks/internal/auth"
	"github.com/sundayezeilo/shortlinks/internal/config"
	db "github.com/sundayezeilo/shortlinks/internal/db/sqlc"
	"github.com/sundayezeilo/shortlinks/internal/db/schema"
	"github.com/sundayezeilo/shortlinks/internal/links"
	"github.com/sundayezeilo/shortlinks/internal/server"
	"github.com/sundayezeilo/shortlinks/internal/users"
)

// App holds the application dependencies and configuration.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DBPool *pgxpool.Pool
	Server *server.Server
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
		"service", cfg.Service.Name,
		"version", cfg.Service.Version,
	)

	dbPool, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := schema.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	srv, err := Wire(cfg, logger, dbPool)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"short_url_prefix", cfg.Links.ShortURLPrefix,
	)

	return &App{
		Config: cfg,
		Logger: logger,
		DBPool: dbPool,
		Server: srv,
	}, nil
}

// Wire builds the repositories, services and handlers on top of pool and
// returns the server that routes to them.
func Wire(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) (*server.Server, error) {
	queries := db.New(pool)

	gen, err := codegen.New(cfg.Links.CodeAlphabet)
	if err != nil {
		return nil, fmt.Errorf("failed to build code generator: %w", err)
	}

	linkSvc := links.NewService(links.NewRepository(queries, nil), &links.ServiceConfig{
		CodeGenerator:  gen,
		CodeLength:     cfg.Links.CodeLength,
		MaxRetries:     cfg.Links.MaxRetries,
		ShortURLPrefix: cfg.Links.ShortURLPrefix,
		MaxPerPage:     cfg.Links.MaxPerPage,
	})

	userSvc, err := users.NewService(users.NewRepository(queries, nil), &users.ServiceConfig{
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build user service: %w", err)
	}

	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.JWTIssuer,
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build token issuer: %w", err)
	}

	return server.New(cfg, logger, server.Deps{
		Links:    links.NewHandler(links.HandlerConfig{Service: linkSvc, Logger: logger}),
		Users:    users.NewHandler(users.HandlerConfig{Service: userSvc, Tokens: issuer, Logger: logger}),
		Verifier: issuer,
		DB:       pool,
	}), nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown releases resources held by the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}
	return nil
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

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

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return pool, nil
}
