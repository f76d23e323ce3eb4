package batch

import (
	"context"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

// BatchUpdate sets field to value on every document with one shared timestamp
func (b *batchService) BatchUpdate(ctx context.Context, ids []uuid.UUID, field domain.DocumentField, value string) (int, error) {
	field, err := domain.ParseDocumentField(string(field))
	if err != nil {
		return 0, err
	}
	ids, err = b.normalize(ids)
	if err != nil {
		return 0, err
	}

	patch := domain.DocumentPatch{Field: field, Value: value}
	updatedAt := b.now().UTC()

	var updated int64
	err = b.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if _, err := resolve(ctx, uow.DocumentRepo(), ids); err != nil {
			return err
		}
		n, err := uow.DocumentRepo().UpdateAll(ctx, ids, patch, updatedAt)
		updated = n
		return err
	})
	if err != nil {
		return 0, err
	}

	b.logger.Info("batch update completed", "field", field, "updated", updated)
	return int(updated), nil
}
