package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/chunkstore/local"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/repository/postgres"
	"github.com/JunyuZhan/lawfirm-archive/internal/bootstrap"
	"github.com/JunyuZhan/lawfirm-archive/internal/cli"
	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/service/cleanup"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/service/upload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	// operator output goes to stdout, service logs to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	objectStorage, err := bootstrap.NewObjectStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	chunkStore, err := local.NewStore(cfg.Upload.StagingDir)
	if err != nil {
		return err
	}
	locker, releaseLocker, err := bootstrap.NewTaskLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer releaseLocker()
	publisher, err := bootstrap.NewEventPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	unitOfWork := postgres.NewUnitOfWork(db)
	services := cli.Services{
		Upload:  upload.NewUploadService(unitOfWork, chunkStore, objectStorage, locker, publisher, cfg.Upload, logger),
		Cleanup: cleanup.NewCleanupService(unitOfWork, chunkStore, locker, cfg.Upload.SweepConcurrency, logger),
	}

	return cli.NewRootCommand(services, cfg.Upload.TaskExpiry).ExecuteContext(ctx)
}
