package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"spendtrack/internal/config"
	"spendtrack/internal/database"
	"spendtrack/internal/logger"
	"spendtrack/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Reconcile error: %v", err)
	}
}

func run() error {
	userID := flag.String("user", "", "reconcile only this user id")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := database.OpenStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer func() {
		if err := closeStores(context.Background()); err != nil {
			logger.Get().Warnf("store close error: %v", err)
		}
	}()

	reconciler := services.NewReconcileService(stores, cfg.ReconcileConcurrency)
	log := logger.Get()

	var reports []services.ReconcileReport
	if *userID != "" {
		report, err := reconciler.ReconcileUser(ctx, *userID)
		if err != nil {
			return err
		}
		reports = append(reports, *report)
	} else {
		reports, err = reconciler.ReconcileAll(ctx)
		if err != nil {
			return err
		}
	}

	changed := 0
	for _, r := range reports {
		if !r.Changed() {
			continue
		}
		changed++
		log.Infow("user reconciled",
			"user_id", r.UserID,
			"added_categories", len(r.AddedCategories),
			"removed_categories", len(r.RemovedCategories),
			"added_transactions", len(r.AddedTransactions),
			"removed_transactions", len(r.RemovedTransactions),
		)
	}
	log.Infof("Reconciled %d user(s), %d changed", len(reports), changed)
	return nil
}
