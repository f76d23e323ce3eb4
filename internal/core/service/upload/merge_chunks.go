package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

// MergeChunks assembles a COMPLETED task into one object and catalogs it
func (s *uploadService) MergeChunks(ctx context.Context, taskID uuid.UUID) (*domain.Document, error) {
	task, err := s.transition(ctx, taskID, domain.TaskEventMergeStarted)
	if err != nil {
		return nil, err
	}

	// Once MERGING, the task must end in MERGED or FAILED even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	logger := s.logger.With("task_id", taskID)
	logger.Info("merge started", "total_chunks", task.TotalChunks)

	size, err := s.storeAssembled(ctx, task)
	if err != nil {
		return nil, s.failMerge(ctx, taskID, err)
	}

	doc, err := s.finishMerge(ctx, task, size)
	if err != nil {
		return nil, err
	}

	s.purge(ctx, taskID)

	event := domain.NewArchiveEvent(domain.EventTypeDocumentMerged, []domain.Document{*doc}, s.now())
	event.TaskID = &taskID
	s.publish(ctx, event)

	logger.Info("merge completed", "document_id", doc.ID, "storage_name", doc.StorageName, "size", size)
	return doc, nil
}

// storeAssembled concatenates the staged chunks and streams them to object storage
func (s *uploadService) storeAssembled(ctx context.Context, task *domain.UploadTask) (int64, error) {
	payload, size, err := s.chunks.Assemble(ctx, task.ID, task.TotalChunks)
	if err != nil {
		if errors.Is(err, domain.ErrAssembly) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrAssembly, err)
	}
	defer func() {
		if closeErr := payload.Close(); closeErr != nil {
			s.logger.Warn("failed to release assembled payload", "task_id", task.ID, "error", closeErr)
		}
	}()

	if size != task.FileSize {
		return 0, fmt.Errorf("%w: assembled %d bytes, declared %d", domain.ErrAssembly, size, task.FileSize)
	}

	if err := s.storage.PutObject(ctx, task.StorageName, payload, size, task.ContentType); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return size, nil
}

// finishMerge creates the document and marks the task MERGED in one transaction
func (s *uploadService) finishMerge(ctx context.Context, task *domain.UploadTask, size int64) (*domain.Document, error) {
	unlock, err := s.locker.Lock(ctx, task.ID)
	if err != nil {
		s.discardBlob(ctx, task.StorageName)
		return nil, fmt.Errorf("failed to lock task %s: %w", task.ID, err)
	}
	defer unlock()

	doc := domain.NewDocumentFromTask(*task, size, s.now())
	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		current, err := uow.UploadTaskRepo().FindByID(ctx, task.ID)
		if err != nil {
			return err
		}
		next, err := current.State.Transition(domain.TaskEventMergeSucceeded)
		if err != nil {
			return err
		}
		if err := uow.DocumentRepo().Create(ctx, doc); err != nil {
			return err
		}
		return uow.UploadTaskRepo().UpdateState(ctx, task.ID, next)
	})
	if err != nil {
		s.discardBlob(ctx, task.StorageName)
		if !errors.Is(err, domain.ErrInvalidState) {
			if _, failErr := s.transitionLocked(ctx, task.ID, domain.TaskEventFail); failErr != nil {
				s.logger.Error("failed to mark task failed", "task_id", task.ID, "error", failErr)
			}
		}
		return nil, err
	}
	return &doc, nil
}

// failMerge moves a MERGING task to FAILED and returns cause. If the task
// left MERGING in the meantime (canceled), the state conflict is returned instead.
func (s *uploadService) failMerge(ctx context.Context, taskID uuid.UUID, cause error) error {
	s.logger.Error("merge failed", "task_id", taskID, "error", cause)
	if _, err := s.transition(ctx, taskID, domain.TaskEventFail); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return err
		}
		s.logger.Error("failed to mark task failed", "task_id", taskID, "error", err)
	}
	return cause
}

func (s *uploadService) discardBlob(ctx context.Context, storageName string) {
	if err := s.storage.DeleteObject(ctx, storageName); err != nil {
		s.logger.Error("failed to delete uncataloged object", "storage_name", storageName, "error", err)
	}
}
