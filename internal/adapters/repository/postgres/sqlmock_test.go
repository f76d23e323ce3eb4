package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDocumentRepository_UpdateAll_Mock(t *testing.T) {
	t.Run("success - category column with shared timestamp", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := NewSQLDocumentRepository(db)
		ids := []uuid.UUID{uuid.New(), uuid.New()}
		stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		mock.ExpectExec(`(?s)^UPDATE\s+documents\s+SET\s+category\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*ANY\(\$3::uuid\[\]\)$`).
			WithArgs("pleadings", stamp, pq.Array(idStrings(ids))).
			WillReturnResult(sqlmock.NewResult(0, 2))

		// Act
		n, err := repo.UpdateAll(context.Background(), ids, domain.DocumentPatch{Field: domain.DocumentFieldCategory, Value: "pleadings"}, stamp)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - unknown field never reaches the database", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := NewSQLDocumentRepository(db)

		// Act
		_, err := repo.UpdateAll(context.Background(), []uuid.UUID{uuid.New()}, domain.DocumentPatch{Field: "file_name", Value: "x"}, time.Now())

		// Assert
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentRepository_Create_Mock(t *testing.T) {
	tests := []struct {
		name    string
		code    pq.ErrorCode
		wantErr error
	}{
		{name: "wrapped foreign key violation means unknown case", code: pqForeignKeyViolation, wantErr: domain.ErrCaseNotFound},
		{name: "wrapped unique violation means duplicate", code: pqUniqueViolation, wantErr: domain.ErrAlreadyExists},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			db, mock := newMockDB(t)
			repo := NewSQLDocumentRepository(db)
			doc := domain.Document{ID: uuid.New(), CaseID: uuid.New(), StorageName: "abc_brief.pdf"}
			mock.ExpectExec(`INSERT\s+INTO\s+documents`).
				WillReturnError(fmt.Errorf("insert document: %w", &pq.Error{Code: tt.code}))

			// Act
			err := repo.Create(context.Background(), doc)

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentRepository_DeleteAll_Mock(t *testing.T) {
	t.Run("success - empty input is a no-op", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := NewSQLDocumentRepository(db)

		// Act
		n, err := repo.DeleteAll(context.Background(), nil)

		// Assert
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - database failure propagates", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := NewSQLDocumentRepository(db)
		mock.ExpectExec(`^DELETE\s+FROM\s+documents`).WillReturnError(errors.New("connection reset"))

		// Act
		_, err := repo.DeleteAll(context.Background(), []uuid.UUID{uuid.New()})

		// Assert
		assert.EqualError(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUploadTaskRepository_AddChunk_Mock(t *testing.T) {
	t.Run("success - returns distinct count", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := NewSQLUploadTaskRepository(db)
		id := uuid.New()
		mock.ExpectExec(`(?s)INSERT\s+INTO\s+upload_task_chunks.*ON\s+CONFLICT.*DO\s+NOTHING`).
			WithArgs(id, 3).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+upload_task_chunks`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		// Act
		n, err := repo.AddChunk(context.Background(), id, 3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - foreign key violation means unknown task", func(t *testing.T) {
		// Arrange
		db, mock := newMockDB(t)
		repo := NewSQLUploadTaskRepository(db)
		id := uuid.New()
		mock.ExpectExec(`INSERT\s+INTO\s+upload_task_chunks`).
			WithArgs(id, 1).
			WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

		// Act
		_, err := repo.AddChunk(context.Background(), id, 1)

		// Assert
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUploadTaskRepository_UpdateState_Mock(t *testing.T) {
	// Arrange
	db, mock := newMockDB(t)
	repo := NewSQLUploadTaskRepository(db)
	id := uuid.New()
	mock.ExpectExec(`^UPDATE\s+upload_tasks\s+SET\s+status`).
		WithArgs(domain.TaskStateMerging, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Act
	err := repo.UpdateState(context.Background(), id, domain.TaskStateMerging)

	// Assert
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_Exists_Mock(t *testing.T) {
	// Arrange
	db, mock := newMockDB(t)
	repo := NewSQLCaseRepository(db)
	id := uuid.New()
	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	// Act
	found, err := repo.Exists(context.Background(), id)

	// Assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
