package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/jobtrack/internal/api"
	"github.com/timmy/jobtrack/internal/api/middleware"
	"github.com/timmy/jobtrack/internal/config"
	"github.com/timmy/jobtrack/internal/logger"
	"github.com/timmy/jobtrack/internal/repository"
	"github.com/timmy/jobtrack/internal/service"
	"github.com/timmy/jobtrack/internal/storage"
)

func main() {
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// CONFIG_PATH selects the config file in deployments.
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if cfg.Auth.JWTSecret == "" {
		appLogger.Fatal("auth.jwt_secret (JWT_SECRET) must be set")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to get database handle")
	}
	defer sqlDB.Close()

	objectStorage, err := storage.NewStorage(cfg.GetStorageConfig())
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}
	if checker, ok := objectStorage.(interface{ EnsureBucket(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := checker.EnsureBucket(ctx)
		cancel()
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
	}

	jobRepo := repository.NewJobRepository(db, repository.NewStatusHistoryRepository(db), repository.JobRepositoryConfig{
		DefaultLimit:      cfg.Listing.DefaultLimit,
		MaxLimit:          cfg.Listing.MaxLimit,
		StrictTransitions: cfg.Jobs.StrictTransitions,
	})
	jobService := service.NewJobService(jobRepo, objectStorage)

	router := api.SetupRouter(jobService, api.RouterConfig{
		Mode: cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		Auth: middleware.AuthConfig{
			Secret: []byte(cfg.Auth.JWTSecret),
			Issuer: cfg.Auth.Issuer,
		},
		Logger: appLogger,
		Ping:   sqlDB.PingContext,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":              cfg.Server.Port,
			"mode":              cfg.Server.Mode,
			"driver":            cfg.Database.Driver,
			"strict_transition": cfg.Jobs.StrictTransitions,
			"storage":           cfg.Storage.Enabled,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
