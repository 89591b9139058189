// Command recurring materializes the recurring templates due in one month.
// It is meant to be run from cron; repeated runs for the same month are safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"budgettracker/internal/config"
	"budgettracker/internal/database"
	"budgettracker/internal/domain"
	"budgettracker/internal/logger"
	"budgettracker/internal/server"
)

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Recurring run failed: %v", err)
	}
}

func run() error {
	monthFlag := flag.String("month", "", "month to process (yyyy-MM), defaults to the current month")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.InitWithOptions(cfg.Env, logger.Options{File: cfg.LogFile})
	defer logger.Sync()

	month := domain.MonthOf(domain.SystemClock{}.Now())
	if *monthFlag != "" {
		month, err = domain.ParseMonthKey(*monthFlag)
		if err != nil {
			return fmt.Errorf("invalid -month %q: %w", *monthFlag, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	locker, closeLocker, err := server.OpenLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	publisher, closePublisher, err := server.OpenPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	svc := server.NewServices(server.Dependencies{
		DB:        dbManager.DB(),
		Config:    cfg,
		Locker:    locker,
		Publisher: publisher,
	})

	result, err := svc.Recurring.ProcessMonth(ctx, month)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d templates failed for %s", result.Failed, result.Considered, month)
	}
	return nil
}
