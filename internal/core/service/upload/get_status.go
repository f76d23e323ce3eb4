package upload

import (
	"context"
	"fmt"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

// GetStatus returns the task with its received chunk indices
func (s *uploadService) GetStatus(ctx context.Context, taskID uuid.UUID) (*domain.UploadTask, error) {
	return s.uow.UploadTaskRepo().FindByID(ctx, taskID)
}

// ListTasks returns the most recent tasks in any of states, all states when empty
func (s *uploadService) ListTasks(ctx context.Context, states []domain.TaskState, limit int) ([]domain.UploadTask, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.uow.UploadTaskRepo().FindByStates(ctx, states, limit)
}

// FailStuckMerge releases a task left in MERGING, keeping its chunks for inspection
func (s *uploadService) FailStuckMerge(ctx context.Context, taskID uuid.UUID) error {
	unlock, err := s.locker.Lock(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to lock task %s: %w", taskID, err)
	}
	defer unlock()

	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		task, err := uow.UploadTaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task.State != domain.TaskStateMerging {
			return fmt.Errorf("%w: task %s is %s, only MERGING tasks can be failed", domain.ErrInvalidState, taskID, task.State)
		}
		next, err := task.State.Transition(domain.TaskEventFail)
		if err != nil {
			return err
		}
		return uow.UploadTaskRepo().UpdateState(ctx, taskID, next)
	})
	if err != nil {
		return err
	}
	s.logger.Warn("stuck merge released", "task_id", taskID)
	return nil
}
