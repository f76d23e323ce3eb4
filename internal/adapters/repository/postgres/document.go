package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlDocumentRepository struct {
	db SQLQuerier
}

// NewSQLDocumentRepository creates sqlDocumentRepository that implements port.DocumentRepository
func NewSQLDocumentRepository(db SQLQuerier) port.DocumentRepository {
	return &sqlDocumentRepository{db: db}
}

const documentColumns = `
	id, case_id, file_name, storage_name, content_type, size_bytes,
	category, remarks, sort_order, version, created_at, updated_at`

// Create inserts a document catalog record
func (s *sqlDocumentRepository) Create(ctx context.Context, doc domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.CaseID,
		doc.FileName,
		doc.StorageName,
		doc.ContentType,
		doc.Size,
		doc.Category,
		doc.Remarks,
		doc.SortOrder,
		doc.Version,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pqForeignKeyViolation:
				return fmt.Errorf("%w: %s", domain.ErrCaseNotFound, doc.CaseID)
			case pqUniqueViolation:
				return fmt.Errorf("document %s : %w", doc.StorageName, domain.ErrAlreadyExists)
			}
		}
		return err
	}
	return nil
}

// FindByID returns one document
func (s *sqlDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	row, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// FindByIDs returns the documents that exist among ids. Missing ids are
// simply absent from the result so callers can tell which ones they are.
func (s *sqlDocumentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ANY($1::uuid[])`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(idStrings(ids)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]domain.Document, 0, len(ids))
	for rows.Next() {
		row, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *row.ToDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteAll deletes every listed document in one statement
func (s *sqlDocumentRepository) DeleteAll(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ANY($1::uuid[])`, pq.Array(idStrings(ids)))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpdateAll applies patch to every listed document with a shared timestamp
func (s *sqlDocumentRepository) UpdateAll(ctx context.Context, ids []uuid.UUID, patch domain.DocumentPatch, updatedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var query string
	switch patch.Field {
	case domain.DocumentFieldRemarks:
		query = `UPDATE documents SET remarks = $1, updated_at = $2 WHERE id = ANY($3::uuid[])`
	case domain.DocumentFieldCategory:
		query = `UPDATE documents SET category = $1, updated_at = $2 WHERE id = ANY($3::uuid[])`
	default:
		return 0, fmt.Errorf("%w: field %q cannot be batch updated", domain.ErrValidation, patch.Field)
	}

	result, err := s.db.ExecContext(ctx, query, patch.Value, updatedAt, pq.Array(idStrings(ids)))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanDocument(r rowScanner) (*dbDocument, error) {
	var row dbDocument
	err := r.Scan(
		&row.ID,
		&row.CaseID,
		&row.FileName,
		&row.StorageName,
		&row.ContentType,
		&row.SizeBytes,
		&row.Category,
		&row.Remarks,
		&row.SortOrder,
		&row.Version,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type dbDocument struct {
	ID          uuid.UUID `db:"id"`
	CaseID      uuid.UUID `db:"case_id"`
	FileName    string    `db:"file_name"`
	StorageName string    `db:"storage_name"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	Category    string    `db:"category"`
	Remarks     string    `db:"remarks"`
	SortOrder   int       `db:"sort_order"`
	Version     int       `db:"version"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToDomain converts db obj to domain
func (d *dbDocument) ToDomain() *domain.Document {
	return &domain.Document{
		ID:          d.ID,
		CaseID:      d.CaseID,
		FileName:    d.FileName,
		StorageName: d.StorageName,
		ContentType: d.ContentType,
		Size:        d.SizeBytes,
		Category:    d.Category,
		Remarks:     d.Remarks,
		SortOrder:   d.SortOrder,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
