package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/catalogsync/backend/internal/application/catalog"
	integrationapp "github.com/catalogsync/backend/internal/application/integration"
	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/catalogsync/backend/internal/infrastructure/cache"
	"github.com/catalogsync/backend/internal/infrastructure/config"
	"github.com/catalogsync/backend/internal/infrastructure/logger"
	"github.com/catalogsync/backend/internal/infrastructure/persistence"
	"github.com/catalogsync/backend/internal/infrastructure/remote"
	"github.com/catalogsync/backend/internal/interfaces/http/handler"
	"github.com/catalogsync/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting catalog sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Redis lock keeps concurrent deployments from racing on the same remote
	// baseline; fall back to the in-process lock when Redis is unreachable
	var locker integration.SyncLocker
	redisLock, err := cache.NewRedisSyncLock(&cfg.Redis, cfg.SyncLock.TTL, log)
	if err != nil {
		log.Warn("Redis unavailable, using in-process sync lock", zap.Error(err))
		locker = cache.NewInMemorySyncLock(cfg.SyncLock.TTL)
	} else {
		defer func() {
			if err := redisLock.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		locker = redisLock
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	attributeRepo := persistence.NewGormAttributeRepository(db.DB)
	valueRepo := persistence.NewGormAttributeValueRepository(db.DB)
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)

	// Remote platform client
	platform := remote.NewClient(&cfg.Remote, log)

	// Application services
	resolver := catalogapp.NewAttributeResolverService(valueRepo, log)
	productService := catalogapp.NewProductService(productRepo, log)
	attributeService := catalogapp.NewAttributeService(attributeRepo, valueRepo, log)
	if err := attributeService.SeedBuiltinCatalogs(context.Background()); err != nil {
		log.Fatal("Failed to seed builtin catalogs", zap.Error(err))
	}
	syncService := integrationapp.NewVariantSyncService(
		resolver,
		integrationapp.NewPayloadAssembler(),
		productRepo,
		credentialRepo,
		platform,
		log,
	)

	// HTTP surface
	engine := router.New(cfg, log, handler.NewSystemHandler(db)).
		Register(handler.NewSyncHandler(syncService, productService, locker)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewAttributeHandler(attributeService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
