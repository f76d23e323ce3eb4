package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

type batchService struct {
	uow       port.UnitOfWork
	storage   port.ObjectStorage
	publisher port.EventPublisher
	cfg       config.BatchConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewBatchService creates a new batch document service
func NewBatchService(uow port.UnitOfWork, storage port.ObjectStorage, publisher port.EventPublisher, cfg config.BatchConfig, logger *slog.Logger) port.BatchService {
	return &batchService{
		uow:       uow,
		storage:   storage,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// normalize drops duplicate ids, keeping first-seen order
func (b *batchService) normalize(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one document id is required", domain.ErrValidation)
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if b.cfg.MaxItems > 0 && len(unique) > b.cfg.MaxItems {
		return nil, fmt.Errorf("%w: %d documents requested, at most %d allowed", domain.ErrValidation, len(unique), b.cfg.MaxItems)
	}
	return unique, nil
}

// resolve loads every id or fails naming the missing ones. Result follows ids order.
func resolve(ctx context.Context, repo port.DocumentRepository, ids []uuid.UUID) ([]domain.Document, error) {
	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Document, len(found))
	for _, doc := range found {
		byID[doc.ID] = doc
	}

	docs := make([]domain.Document, 0, len(ids))
	var missing []string
	for _, id := range ids {
		doc, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		docs = append(docs, doc)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, strings.Join(missing, ", "))
	}
	return docs, nil
}

func (b *batchService) publish(ctx context.Context, eventType domain.EventType, docs []domain.Document) {
	if len(docs) == 0 {
		return
	}
	event := domain.NewArchiveEvent(eventType, docs, b.now())
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.logger.Warn("failed to publish event", "type", eventType, "event_id", event.ID, "error", err)
	}
}
