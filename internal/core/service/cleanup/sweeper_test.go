package cleanup_test

import (
	"context"
	"testing"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/service/cleanup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSweeper_RunOnce(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockService := cleanup.NewMockCleanupService()
	sweeper := cleanup.NewSweeper(mockService, time.Hour, 24*time.Hour, discardLogger())
	expected := time.Now().Add(-24 * time.Hour)
	mockService.On("CleanupExpiredTasks", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(2, nil)

	// Act
	sweeper.RunOnce(ctx)

	// Assert
	mockService.AssertExpectations(t)
}

func TestSweeper_Run(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	mockService := cleanup.NewMockCleanupService()
	sweeper := cleanup.NewSweeper(mockService, 10*time.Millisecond, time.Hour, discardLogger())
	swept := make(chan struct{}, 1)
	mockService.On("CleanupExpiredTasks", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).
		Return(0, nil)
	done := make(chan struct{})

	// Act
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	// Assert
	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.GreaterOrEqual(t, len(mockService.Calls), 1)
}
