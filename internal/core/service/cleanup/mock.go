package cleanup

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCleanupService is a mock implementation of CleanupService
type MockCleanupService struct {
	mock.Mock
}

// NewMockCleanupService creates a new MockCleanupService
func NewMockCleanupService() *MockCleanupService {
	return &MockCleanupService{}
}

func (m *MockCleanupService) CleanupExpiredTasks(ctx context.Context, createdBefore time.Time) (int, error) {
	args := m.Called(ctx, createdBefore)
	return args.Int(0), args.Error(1)
}
