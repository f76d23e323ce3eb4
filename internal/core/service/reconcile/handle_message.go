package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

// HandleMessage deletes the catalog rows of orphaned documents whose blob is
// confirmed gone. Other event types are ignored. Returning an error asks the
// broker to redeliver.
func (r *reconcileService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.ArchiveEvent
	if err := json.Unmarshal(data, &event); err != nil {
		r.logger.Warn("dropping malformed event", "error", err)
		return nil
	}
	if event.Type != domain.EventTypeDocumentsOrphaned {
		r.logger.Debug("ignoring event", "type", event.Type, "event_id", event.ID)
		return nil
	}

	r.logger.Info("reconciling orphaned documents", "event_id", event.ID, "documents", len(event.Documents))

	var stale []uuid.UUID
	for _, ref := range event.Documents {
		doc, err := r.uow.DocumentRepo().FindByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, domain.ErrDocumentNotFound) {
				continue
			}
			return err
		}

		exists, err := r.storage.ObjectExists(ctx, doc.StorageName)
		if err != nil {
			return fmt.Errorf("failed to check object %s: %w", doc.StorageName, err)
		}
		if exists {
			r.logger.Warn("orphan report for a document whose object still exists", "document_id", doc.ID, "storage_name", doc.StorageName)
			continue
		}
		stale = append(stale, doc.ID)
	}

	if len(stale) == 0 {
		return nil
	}

	var deleted int64
	err := r.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		n, err := uow.DocumentRepo().DeleteAll(ctx, stale)
		deleted = n
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete orphaned rows: %w", err)
	}

	r.logger.Info("orphaned documents reconciled", "event_id", event.ID, "deleted", deleted)
	return nil
}
