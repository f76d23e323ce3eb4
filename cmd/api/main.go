package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/chunkstore/local"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1/document"
	uploadhandler "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/repository/postgres"
	"github.com/JunyuZhan/lawfirm-archive/internal/bootstrap"
	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/service/batch"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/service/cleanup"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/service/upload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

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

	//storage
	objectStorage, err := bootstrap.NewObjectStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init object storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	chunkStore, err := local.NewStore(cfg.Upload.StagingDir)
	if err != nil {
		logger.Error("failed to init chunk staging", "dir", cfg.Upload.StagingDir, "error", err)
		os.Exit(1)
	}

	locker, releaseLocker, err := bootstrap.NewTaskLocker(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init task locker", "backend", cfg.Lock.Backend, "error", err)
		os.Exit(1)
	}
	defer releaseLocker()

	publisher, err := bootstrap.NewEventPublisher(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init event publisher", "backend", cfg.Events.Backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)

	uploadService := upload.NewUploadService(unitOfWork, chunkStore, objectStorage, locker, publisher, cfg.Upload, logger)
	batchService := batch.NewBatchService(unitOfWork, objectStorage, publisher, cfg.Batch, logger)
	cleanupService := cleanup.NewCleanupService(unitOfWork, chunkStore, locker, cfg.Upload.SweepConcurrency, logger)

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, cfg.Upload.ChunkSize, logger)
	documentHandler := document.NewDocumentHandlerV1(batchService, logger)

	router := chi.NewRouter(logger, uploadHandler, documentHandler, cfg.Env.Env, cfg.Upload.ChunkSize+1<<20)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	sweeper := cleanup.NewSweeper(cleanupService, cfg.Upload.CleanupEvery, cfg.Upload.TaskExpiry, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}
