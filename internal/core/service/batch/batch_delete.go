package batch

import (
	"context"
	"fmt"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BatchDelete removes the blobs of every document, then the catalog rows.
// If any blob deletion fails, no catalog row is deleted.
func (b *batchService) BatchDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	ids, err := b.normalize(ids)
	if err != nil {
		return 0, err
	}

	docs, err := resolve(ctx, b.uow.DocumentRepo(), ids)
	if err != nil {
		return 0, err
	}

	failures, removed := b.deleteBlobs(ctx, docs)
	if len(failures) > 0 {
		// Blobs already gone are orphans until reconciled.
		b.publish(ctx, domain.EventTypeDocumentsOrphaned, removed)
		succeeded := make([]uuid.UUID, 0, len(removed))
		for _, doc := range removed {
			succeeded = append(succeeded, doc.ID)
		}
		b.logger.Error("batch delete aborted",
			"requested", len(docs),
			"failed", len(failures),
			"orphaned", len(removed),
		)
		return 0, &domain.PartialFailureError{
			Operation: "batch delete",
			Failures:  failures,
			Succeeded: succeeded,
		}
	}

	var deleted int64
	err = b.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		n, err := uow.DocumentRepo().DeleteAll(ctx, ids)
		deleted = n
		return err
	})
	if err != nil {
		b.publish(ctx, domain.EventTypeDocumentsOrphaned, docs)
		return 0, fmt.Errorf("failed to delete catalog rows: %w", err)
	}

	b.publish(ctx, domain.EventTypeDocumentsDeleted, docs)
	b.logger.Info("batch delete completed", "deleted", deleted)
	return int(deleted), nil
}

// deleteBlobs attempts every deletion without stopping early.
// Failures come back in input order.
func (b *batchService) deleteBlobs(ctx context.Context, docs []domain.Document) ([]domain.ItemFailure, []domain.Document) {
	reasons := make([]error, len(docs))

	var g errgroup.Group
	if b.cfg.DeleteConcurrency > 0 {
		g.SetLimit(b.cfg.DeleteConcurrency)
	}
	for i, doc := range docs {
		i := i
		doc := doc
		g.Go(func() error {
			if err := b.storage.DeleteObject(ctx, doc.StorageName); err != nil {
				reasons[i] = err
				b.logger.Warn("failed to delete object", "document_id", doc.ID, "storage_name", doc.StorageName, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var failures []domain.ItemFailure
	removed := make([]domain.Document, 0, len(docs))
	for i, doc := range docs {
		if reasons[i] != nil {
			failures = append(failures, domain.ItemFailure{ID: doc.ID, Reason: reasons[i].Error()})
			continue
		}
		removed = append(removed, doc)
	}
	return failures, removed
}
