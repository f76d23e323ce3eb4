package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

// ProcessChunk stores one chunk and records it against the task.
// totalChunks is the client's view of the chunk count; zero skips the check.
func (s *uploadService) ProcessChunk(ctx context.Context, taskID uuid.UUID, chunkIndex int, totalChunks int, chunk io.Reader) (*domain.ChunkAcceptance, error) {
	task, err := s.uow.UploadTaskRepo().FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.State.AcceptsChunks() {
		return nil, fmt.Errorf("%w: task %s is %s and no longer accepts chunks", domain.ErrInvalidState, taskID, task.State)
	}
	if totalChunks != 0 && totalChunks != task.TotalChunks {
		return nil, fmt.Errorf("%w: task has %d chunks, request claims %d", domain.ErrValidation, task.TotalChunks, totalChunks)
	}
	if chunkIndex < 1 || chunkIndex > task.TotalChunks {
		return nil, fmt.Errorf("%w: chunk index %d outside 1..%d", domain.ErrValidation, chunkIndex, task.TotalChunks)
	}

	// Bytes land before the lock is taken; the lock only guards bookkeeping.
	expected := task.ExpectedChunkSize(chunkIndex)
	if _, err := s.chunks.WriteChunk(ctx, taskID, chunkIndex, chunk, expected); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, fmt.Errorf("chunk %d must be %d bytes: %w", chunkIndex, expected, err)
		}
		if current, findErr := s.uow.UploadTaskRepo().FindByID(ctx, taskID); findErr == nil && !current.State.AcceptsChunks() {
			return nil, fmt.Errorf("%w: task %s is %s and no longer accepts chunks", domain.ErrInvalidState, taskID, current.State)
		}
		return nil, fmt.Errorf("%w: failed to write chunk %d: %v", domain.ErrStorage, chunkIndex, err)
	}

	unlock, err := s.locker.Lock(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock task %s: %w", taskID, err)
	}
	defer unlock()

	var acceptance *domain.ChunkAcceptance
	var rejectedIn domain.TaskState
	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		current, err := uow.UploadTaskRepo().FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !current.State.AcceptsChunks() {
			rejectedIn = current.State
			return fmt.Errorf("%w: task %s is %s and no longer accepts chunks", domain.ErrInvalidState, taskID, current.State)
		}

		received, err := uow.UploadTaskRepo().AddChunk(ctx, taskID, chunkIndex)
		if err != nil {
			return err
		}

		event := domain.TaskEventChunkAccepted
		if received >= current.TotalChunks {
			event = domain.TaskEventAllChunksReceived
		}
		next, err := current.State.Transition(event)
		if err != nil {
			return err
		}
		if err := uow.UploadTaskRepo().UpdateState(ctx, taskID, next); err != nil {
			return err
		}

		acceptance = &domain.ChunkAcceptance{
			TaskID:         taskID,
			ChunkIndex:     chunkIndex,
			ReceivedChunks: received,
			TotalChunks:    current.TotalChunks,
			State:          next,
			Completed:      next == domain.TaskStateCompleted,
		}
		return nil
	})
	if err != nil {
		// A cancel or merge finished while the bytes were in flight.
		if rejectedIn == domain.TaskStateCanceled || rejectedIn == domain.TaskStateMerged {
			s.discardChunk(ctx, taskID, chunkIndex)
		}
		return nil, err
	}

	s.logger.Debug("chunk accepted",
		"task_id", taskID,
		"chunk_index", chunkIndex,
		"received", acceptance.ReceivedChunks,
		"total", acceptance.TotalChunks,
	)
	return acceptance, nil
}

func (s *uploadService) discardChunk(ctx context.Context, taskID uuid.UUID, index int) {
	if err := s.chunks.RemoveChunk(ctx, taskID, index); err != nil {
		s.logger.Warn("failed to remove chunk", "task_id", taskID, "chunk_index", index, "error", err)
	}
}
