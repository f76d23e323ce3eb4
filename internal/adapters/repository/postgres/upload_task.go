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

type sqlUploadTaskRepository struct {
	db SQLQuerier
}

// NewSQLUploadTaskRepository Creates a new sqlUploadTaskRepository
func NewSQLUploadTaskRepository(db SQLQuerier) port.UploadTaskRepository {
	return &sqlUploadTaskRepository{db: db}
}

const uploadTaskColumns = `
	t.id, t.file_name, t.file_size, t.content_type, t.chunk_size, t.total_chunks,
	t.storage_name, t.case_id, t.category, t.remarks, t.status, t.created_at, t.updated_at,
	ARRAY(SELECT c.chunk_index FROM upload_task_chunks c WHERE c.task_id = t.id ORDER BY c.chunk_index)`

// Create creates an upload task
func (s *sqlUploadTaskRepository) Create(ctx context.Context, task domain.UploadTask) error {
	query := `
		INSERT INTO upload_tasks (
			id, file_name, file_size, content_type, chunk_size, total_chunks,
			storage_name, case_id, category, remarks, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.FileName,
		task.FileSize,
		task.ContentType,
		task.ChunkSize,
		task.TotalChunks,
		task.StorageName,
		task.CaseID,
		task.Category,
		task.Remarks,
		task.State,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pqForeignKeyViolation:
				return fmt.Errorf("%w: %s", domain.ErrCaseNotFound, task.CaseID)
			case pqUniqueViolation:
				return fmt.Errorf("upload task %s: %w", task.ID, domain.ErrAlreadyExists)
			}
		}
		return err
	}
	return nil
}

// FindByID returns a task with its received chunk indices
func (s *sqlUploadTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadTask, error) {
	query := `SELECT ` + uploadTaskColumns + ` FROM upload_tasks t WHERE t.id = $1`

	row, err := scanUploadTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// AddChunk records a received chunk index and returns the distinct count
func (s *sqlUploadTaskRepository) AddChunk(ctx context.Context, id uuid.UUID, index int) (int, error) {
	insert := `
		INSERT INTO upload_task_chunks (task_id, chunk_index)
		VALUES ($1, $2)
		ON CONFLICT (task_id, chunk_index) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, insert, id, index); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return 0, domain.ErrTaskNotFound
		}
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM upload_task_chunks WHERE task_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateState updates status
func (s *sqlUploadTaskRepository) UpdateState(ctx context.Context, id uuid.UUID, state domain.TaskState) error {
	query := `UPDATE upload_tasks SET status = $1, updated_at = now() WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, state, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// FindExpirable returns tasks in states created strictly before createdBefore, oldest first
func (s *sqlUploadTaskRepository) FindExpirable(ctx context.Context, states []domain.TaskState, createdBefore time.Time) ([]domain.UploadTask, error) {
	if len(states) == 0 {
		return []domain.UploadTask{}, nil
	}
	query := `SELECT ` + uploadTaskColumns + `
		FROM upload_tasks t
		WHERE t.status = ANY($1) AND t.created_at < $2
		ORDER BY t.created_at`

	return s.list(ctx, query, pq.Array(stateStrings(states)), createdBefore)
}

// FindByStates returns the newest tasks, filtered by state when states is not empty
func (s *sqlUploadTaskRepository) FindByStates(ctx context.Context, states []domain.TaskState, limit int) ([]domain.UploadTask, error) {
	query := `SELECT ` + uploadTaskColumns + `
		FROM upload_tasks t
		WHERE cardinality($1::text[]) = 0 OR t.status = ANY($1::text[])
		ORDER BY t.created_at DESC
		LIMIT $2`

	return s.list(ctx, query, pq.Array(stateStrings(states)), limit)
}

// Delete removes a task and, by cascade, its chunk records
func (s *sqlUploadTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM upload_tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *sqlUploadTaskRepository) list(ctx context.Context, query string, args ...any) ([]domain.UploadTask, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.UploadTask{}
	for rows.Next() {
		row, err := scanUploadTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUploadTask(r rowScanner) (*dbUploadTask, error) {
	var row dbUploadTask
	err := r.Scan(
		&row.ID,
		&row.FileName,
		&row.FileSize,
		&row.ContentType,
		&row.ChunkSize,
		&row.TotalChunks,
		&row.StorageName,
		&row.CaseID,
		&row.Category,
		&row.Remarks,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.ReceivedChunks,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func stateStrings(states []domain.TaskState) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, string(s))
	}
	return out
}

type dbUploadTask struct {
	ID             uuid.UUID     `db:"id"`
	FileName       string        `db:"file_name"`
	FileSize       int64         `db:"file_size"`
	ContentType    string        `db:"content_type"`
	ChunkSize      int64         `db:"chunk_size"`
	TotalChunks    int           `db:"total_chunks"`
	StorageName    string        `db:"storage_name"`
	CaseID         uuid.UUID     `db:"case_id"`
	Category       string        `db:"category"`
	Remarks        string        `db:"remarks"`
	Status         string        `db:"status"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
	ReceivedChunks pq.Int64Array `db:"received_chunks"`
}

// ToDomain converts db obj to domain
func (s *dbUploadTask) ToDomain() *domain.UploadTask {
	received := make([]int, 0, len(s.ReceivedChunks))
	for _, idx := range s.ReceivedChunks {
		received = append(received, int(idx))
	}
	return &domain.UploadTask{
		ID:             s.ID,
		FileName:       s.FileName,
		FileSize:       s.FileSize,
		ContentType:    s.ContentType,
		ChunkSize:      s.ChunkSize,
		TotalChunks:    s.TotalChunks,
		ReceivedChunks: received,
		StorageName:    s.StorageName,
		CaseID:         s.CaseID,
		Category:       s.Category,
		Remarks:        s.Remarks,
		State:          domain.TaskState(s.Status),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
