package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
)

// Sweeper runs the expiry sweep on a fixed interval
type Sweeper struct {
	service port.CleanupService
	every   time.Duration
	expiry  time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewSweeper removes tasks older than expiry every interval
func NewSweeper(service port.CleanupService, every, expiry time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		service: service,
		every:   every,
		expiry:  expiry,
		logger:  logger,
		now:     time.Now,
	}
}

// Run blocks until ctx is done
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	s.logger.Info("cleanup task initialized", "interval", s.every, "expiry", s.expiry)

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("cleanup task stopped")
			return
		}
	}
}

// RunOnce performs a single sweep with the cutoff computed from now
func (s *Sweeper) RunOnce(ctx context.Context) {
	cutoff := s.now().Add(-s.expiry)
	s.logger.Info("cleanup task starting", "cutoff", cutoff)
	removed, err := s.service.CleanupExpiredTasks(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to cleanup expired tasks", "error", err)
		return
	}
	s.logger.Info("cleanup task completed successfully", "removed", removed)
}
