package cleanup

import (
	"log/slog"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
)

type cleanupService struct {
	uow         port.UnitOfWork
	chunks      port.ChunkStore
	locker      port.TaskLocker
	concurrency int
	logger      *slog.Logger
}

// NewCleanupService creates a new cleanup service. concurrency bounds how
// many tasks are removed in parallel.
func NewCleanupService(uow port.UnitOfWork, chunks port.ChunkStore, locker port.TaskLocker, concurrency int, logger *slog.Logger) port.CleanupService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &cleanupService{
		uow:         uow,
		chunks:      chunks,
		locker:      locker,
		concurrency: concurrency,
		logger:      logger,
	}
}
