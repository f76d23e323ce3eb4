package batch

import (
	"context"
	"io"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBatchService is a mock implementation of BatchService
type MockBatchService struct {
	mock.Mock
}

// NewMockBatchService creates a new MockBatchService
func NewMockBatchService() *MockBatchService {
	return &MockBatchService{}
}

func (m *MockBatchService) BatchDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockBatchService) BatchUpdate(ctx context.Context, ids []uuid.UUID, field domain.DocumentField, value string) (int, error) {
	args := m.Called(ctx, ids, field, value)
	return args.Int(0), args.Error(1)
}

func (m *MockBatchService) BatchDownload(ctx context.Context, ids []uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, ids, w)
	return args.Error(0)
}
