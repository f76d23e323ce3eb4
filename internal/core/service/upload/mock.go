package upload

import (
	"context"
	"io"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) InitUpload(ctx context.Context, req domain.UploadRequest) (*domain.UploadTask, error) {
	args := m.Called(ctx, req)
	task, _ := args.Get(0).(*domain.UploadTask)
	return task, args.Error(1)
}

func (m *MockUploadService) ProcessChunk(ctx context.Context, taskID uuid.UUID, chunkIndex int, totalChunks int, chunk io.Reader) (*domain.ChunkAcceptance, error) {
	args := m.Called(ctx, taskID, chunkIndex, totalChunks, chunk)
	acceptance, _ := args.Get(0).(*domain.ChunkAcceptance)
	return acceptance, args.Error(1)
}

func (m *MockUploadService) MergeChunks(ctx context.Context, taskID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, taskID)
	doc, _ := args.Get(0).(*domain.Document)
	return doc, args.Error(1)
}

func (m *MockUploadService) CancelUpload(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockUploadService) GetStatus(ctx context.Context, taskID uuid.UUID) (*domain.UploadTask, error) {
	args := m.Called(ctx, taskID)
	task, _ := args.Get(0).(*domain.UploadTask)
	return task, args.Error(1)
}

func (m *MockUploadService) ListTasks(ctx context.Context, states []domain.TaskState, limit int) ([]domain.UploadTask, error) {
	args := m.Called(ctx, states, limit)
	tasks, _ := args.Get(0).([]domain.UploadTask)
	return tasks, args.Error(1)
}

func (m *MockUploadService) FailStuckMerge(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}
