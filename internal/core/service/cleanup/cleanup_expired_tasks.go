package cleanup

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"golang.org/x/sync/errgroup"
)

// CleanupExpiredTasks deletes abandoned and failed tasks created before
// createdBefore together with their staged chunks. A failure on one task is
// logged and does not stop the sweep.
func (c *cleanupService) CleanupExpiredTasks(ctx context.Context, createdBefore time.Time) (int, error) {
	tasks, err := c.uow.UploadTaskRepo().FindExpirable(ctx, domain.ExpirableStates(), createdBefore)
	if err != nil {
		return 0, err
	}

	var removed atomic.Int64
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			ok, err := c.expire(ctx, task)
			if err != nil {
				c.logger.Error("failed to expire task", "task_id", task.ID, "error", err)
				return nil
			}
			if ok {
				removed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Info("expired tasks cleaned", "candidates", len(tasks), "removed", removed.Load())
	return int(removed.Load()), ctx.Err()
}

// expire re-checks the task under its lock, since a chunk or cancel may have
// landed after the candidate list was read.
func (c *cleanupService) expire(ctx context.Context, candidate domain.UploadTask) (bool, error) {
	unlock, err := c.locker.Lock(ctx, candidate.ID)
	if err != nil {
		return false, err
	}

	deleted := false
	err = c.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		task, err := uow.UploadTaskRepo().FindByID(ctx, candidate.ID)
		if err != nil {
			return err
		}
		if !task.State.Expirable() {
			return nil
		}
		deleted = true
		return uow.UploadTaskRepo().Delete(ctx, candidate.ID)
	})
	unlock()
	if errors.Is(err, domain.ErrTaskNotFound) {
		err = nil
	}
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if err := c.chunks.Purge(ctx, candidate.ID); err != nil {
		c.logger.Warn("failed to purge staged chunks", "task_id", candidate.ID, "error", err)
	}
	return true, nil
}
