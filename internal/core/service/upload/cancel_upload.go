package upload

import (
	"context"
	"fmt"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

// CancelUpload cancels a non-terminal task and purges its chunks.
// Canceling a terminal task is a no-op.
func (s *uploadService) CancelUpload(ctx context.Context, taskID uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to lock task %s: %w", taskID, err)
	}

	canceled := false
	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		task, err := uow.UploadTaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task.State.IsTerminal() {
			return nil
		}
		next, err := task.State.Transition(domain.TaskEventCancel)
		if err != nil {
			return err
		}
		canceled = true
		return uow.UploadTaskRepo().UpdateState(ctx, taskID, next)
	})
	unlock()
	if err != nil {
		return err
	}

	if canceled {
		s.purge(ctx, taskID)
		s.logger.Info("upload canceled", "task_id", taskID)
	}
	return nil
}
