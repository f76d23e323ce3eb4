package upload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

const defaultListLimit = 100

type uploadService struct {
	uow       port.UnitOfWork
	chunks    port.ChunkStore
	storage   port.ObjectStorage
	locker    port.TaskLocker
	publisher port.EventPublisher
	cfg       config.UploadConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewUploadService creates a new chunked upload service
func NewUploadService(
	uow port.UnitOfWork,
	chunks port.ChunkStore,
	storage port.ObjectStorage,
	locker port.TaskLocker,
	publisher port.EventPublisher,
	cfg config.UploadConfig,
	logger *slog.Logger,
) port.UploadService {
	return &uploadService{
		uow:       uow,
		chunks:    chunks,
		storage:   storage,
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// transition applies event to the task under its lock
func (s *uploadService) transition(ctx context.Context, taskID uuid.UUID, event domain.TaskEvent) (*domain.UploadTask, error) {
	unlock, err := s.locker.Lock(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock task %s: %w", taskID, err)
	}
	defer unlock()
	return s.transitionLocked(ctx, taskID, event)
}

// transitionLocked expects the caller to hold the task lock
func (s *uploadService) transitionLocked(ctx context.Context, taskID uuid.UUID, event domain.TaskEvent) (*domain.UploadTask, error) {
	var updated *domain.UploadTask
	err := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		task, err := uow.UploadTaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		next, err := task.State.Transition(event)
		if err != nil {
			return err
		}
		if err := uow.UploadTaskRepo().UpdateState(ctx, taskID, next); err != nil {
			return err
		}
		task.State = next
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *uploadService) purge(ctx context.Context, taskID uuid.UUID) {
	if err := s.chunks.Purge(ctx, taskID); err != nil {
		s.logger.Error("failed to purge staged chunks", "task_id", taskID, "error", err)
	}
}

func (s *uploadService) publish(ctx context.Context, event domain.ArchiveEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "type", event.Type, "event_id", event.ID, "error", err)
	}
}
