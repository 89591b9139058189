package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgettracker/internal/config"
	"budgettracker/internal/database"
	"budgettracker/internal/logger"
	"budgettracker/internal/server"
)

// @title           Budget Tracker API
// @version         1.0
// @description     Personal finance ledger: transactions, categories, monthly budgets and recurring templates.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		logger.Init(os.Getenv("ENV"))
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.InitWithOptions(appConfig.Env, logger.Options{File: appConfig.LogFile})
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Optional infrastructure
	locker, closeLocker, err := server.OpenLocker(ctx, appConfig)
	if err != nil {
		return err
	}
	defer closeLocker()

	publisher, closePublisher, err := server.OpenPublisher(appConfig)
	if err != nil {
		return err
	}
	defer closePublisher()

	router := server.NewRouter(server.Dependencies{
		DB:        dbManager.DB(),
		Config:    appConfig,
		Locker:    locker,
		Publisher: publisher,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadTimeout:       appConfig.HTTPReadTimeout,
		ReadHeaderTimeout: appConfig.HTTPReadTimeout,
		WriteTimeout:      appConfig.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting budget tracker server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
