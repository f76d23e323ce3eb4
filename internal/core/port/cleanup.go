package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup of abandoned uploads
type CleanupService interface {
	CleanupExpiredTasks(ctx context.Context, createdBefore time.Time) (int, error)
}
