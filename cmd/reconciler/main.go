package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/repository/postgres"
	"github.com/JunyuZhan/lawfirm-archive/internal/bootstrap"
	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/service/reconcile"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Initialize database
	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	objectStorage, err := bootstrap.NewObjectStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init object storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	logger.Info("object storage initialized", "backend", cfg.Storage.Backend)

	// Initialize services
	unitOfWork := postgres.NewUnitOfWork(db)
	reconcileService := reconcile.NewReconcileService(objectStorage, unitOfWork, logger)

	// Initialize consumer
	consumer, err := bootstrap.NewEventConsumer(cfg, logger)
	if err != nil {
		logger.Error("failed to create event consumer", "backend", cfg.Events.Backend, "error", err)
		os.Exit(1)
	}

	if err := consumer.Subscribe(ctx, reconcileService); err != nil {
		logger.Error("failed to subscribe", "backend", cfg.Events.Backend, "error", err)
		_ = consumer.Close()
		os.Exit(1)
	}
	logger.Info("subscription active", "backend", cfg.Events.Backend)

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down reconciler")

	if err := consumer.Close(); err != nil {
		logger.Error("failed to close consumer during shutdown", "error", err)
	}

	logger.Info("reconciler shutdown complete")
}
