package port

import (
	"context"
	"io"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
)

// DocumentRepository is an interface to define document catalog interactions
type DocumentRepository interface {
	Create(ctx context.Context, doc domain.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Document, error)
	DeleteAll(ctx context.Context, ids []uuid.UUID) (int64, error)
	UpdateAll(ctx context.Context, ids []uuid.UUID, patch domain.DocumentPatch, updatedAt time.Time) (int64, error)
}

// CaseRepository resolves owning cases
type CaseRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ObjectStorage is an interface to define blob storage interactions
type ObjectStorage interface {
	PutObject(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, name string) (io.ReadCloser, error)
	// DeleteObject succeeds when the object is already absent.
	DeleteObject(ctx context.Context, name string) error
	ObjectExists(ctx context.Context, name string) (bool, error)
}

// BatchService applies one mutation to many documents
type BatchService interface {
	BatchDelete(ctx context.Context, ids []uuid.UUID) (int, error)
	BatchUpdate(ctx context.Context, ids []uuid.UUID, field domain.DocumentField, value string) (int, error)
	BatchDownload(ctx context.Context, ids []uuid.UUID, w io.Writer) error
}
