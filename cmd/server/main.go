package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/api"
	"github.com/jafarshop/productconsole/internal/config"
	"github.com/jafarshop/productconsole/internal/repository"
	"github.com/jafarshop/productconsole/internal/repository/memory"
	"github.com/jafarshop/productconsole/internal/repository/postgres"
	"github.com/jafarshop/productconsole/internal/repository/redis"
	"github.com/jafarshop/productconsole/internal/service"
	"github.com/jafarshop/productconsole/internal/session"
	"github.com/jafarshop/productconsole/internal/workflow"
)

const searchStateTTL = 30 * 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting product console server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("catalog_mode", cfg.Catalog.Mode),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Commit journal: postgres when configured, otherwise process memory
	repos := &repository.Repositories{CommitRecord: memory.NewCommitRecordRepository()}
	if cfg.Database.Enabled() {
		db, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repos = postgres.NewRepositories(db, logger)
	} else {
		logger.Warn("DB_HOST not set, commit journal kept in memory")
	}

	// Search state: redis when configured, otherwise process memory
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		repos.SearchState = redis.NewSearchStateStore(client, searchStateTTL, logger)
	} else {
		repos.SearchState = memory.NewSearchStateStore()
	}

	journal := service.NewNotifyingJournal(repos.CommitRecord, cfg.Session.CommitWebhook, logger)

	catalog, err := service.NewCatalogGateway(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create catalog gateway", zap.Error(err))
	}

	sessions := session.NewRegistry(workflow.Options{
		Catalog:         catalog,
		Journal:         journal,
		KnownTagOptions: cfg.Session.KnownTagOptions,
		Logger:          logger,
	}, cfg.Session.TTL, logger)
	go sessions.Run(ctx)

	// Initialize router
	router := api.NewRouter(cfg, api.Dependencies{
		Sessions: sessions,
		Accounts: catalog,
		Repos:    repos,
	}, logger)

	// Create HTTP server. Catalog calls can take up to CATALOG_API_TIMEOUT.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Catalog.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
