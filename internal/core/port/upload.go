package port

import (
	"context"
	"io"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
)

// UploadTaskRepository is an interface to interact with the upload task registry
type UploadTaskRepository interface {
	Create(ctx context.Context, task domain.UploadTask) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadTask, error)
	// AddChunk records index as received and returns the distinct received count.
	// Recording an index twice is a no-op.
	AddChunk(ctx context.Context, id uuid.UUID, index int) (int, error)
	UpdateState(ctx context.Context, id uuid.UUID, state domain.TaskState) error
	FindExpirable(ctx context.Context, states []domain.TaskState, createdBefore time.Time) ([]domain.UploadTask, error)
	FindByStates(ctx context.Context, states []domain.TaskState, limit int) ([]domain.UploadTask, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChunkStore is the local staging area for in-flight chunks
type ChunkStore interface {
	Allocate(ctx context.Context, taskID uuid.UUID) error
	// WriteChunk commits the chunk only when r yields exactly expected bytes.
	// A mismatch is a domain.ErrValidation and leaves any committed copy intact.
	WriteChunk(ctx context.Context, taskID uuid.UUID, index int, r io.Reader, expected int64) (int64, error)
	RemoveChunk(ctx context.Context, taskID uuid.UUID, index int) error
	ListChunks(ctx context.Context, taskID uuid.UUID) ([]int, error)
	// Assemble concatenates chunks 1..total. Closing the returned reader
	// removes the assembled payload.
	Assemble(ctx context.Context, taskID uuid.UUID, total int) (io.ReadCloser, int64, error)
	Purge(ctx context.Context, taskID uuid.UUID) error
}

// TaskLocker serializes mutations of a single upload task
type TaskLocker interface {
	Lock(ctx context.Context, taskID uuid.UUID) (unlock func(), err error)
}

// UploadService is an interface to define the chunked upload service
type UploadService interface {
	InitUpload(ctx context.Context, req domain.UploadRequest) (*domain.UploadTask, error)
	ProcessChunk(ctx context.Context, taskID uuid.UUID, chunkIndex int, totalChunks int, chunk io.Reader) (*domain.ChunkAcceptance, error)
	MergeChunks(ctx context.Context, taskID uuid.UUID) (*domain.Document, error)
	CancelUpload(ctx context.Context, taskID uuid.UUID) error
	GetStatus(ctx context.Context, taskID uuid.UUID) (*domain.UploadTask, error)
	ListTasks(ctx context.Context, states []domain.TaskState, limit int) ([]domain.UploadTask, error)
	FailStuckMerge(ctx context.Context, taskID uuid.UUID) error
}
