package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
)

// InitUpload registers a new upload task and allocates its staging area
func (s *uploadService) InitUpload(ctx context.Context, req domain.UploadRequest) (*domain.UploadTask, error) {
	req.FileName = strings.TrimSpace(req.FileName)
	if req.FileName == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if req.FileSize <= 0 {
		return nil, fmt.Errorf("%w: file size must be positive, got %d", domain.ErrValidation, req.FileSize)
	}
	if s.cfg.MaxFileSize > 0 && req.FileSize > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: file size %d exceeds the limit of %d bytes", domain.ErrValidation, req.FileSize, s.cfg.MaxFileSize)
	}

	exists, err := s.uow.CaseRepo().Exists(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrCaseNotFound, req.CaseID)
	}

	task := domain.NewUploadTask(req, s.cfg.ChunkSize, s.now())

	if err := s.chunks.Allocate(ctx, task.ID); err != nil {
		return nil, fmt.Errorf("%w: failed to allocate staging area: %v", domain.ErrStorage, err)
	}

	if err := s.uow.UploadTaskRepo().Create(ctx, task); err != nil {
		s.purge(ctx, task.ID)
		return nil, err
	}

	s.logger.Info("upload initialized",
		"task_id", task.ID,
		"file_name", task.FileName,
		"file_size", task.FileSize,
		"total_chunks", task.TotalChunks,
	)
	return &task, nil
}
