package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/repository/postgres"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSqlDocumentRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	docRepo := postgres.NewSQLDocumentRepository(dbConnection)
	caseRepo := postgres.NewSQLCaseRepository(dbConnection)

	newDocument := func(t *testing.T, caseID uuid.UUID, name string) domain.Document {
		now := time.Now().Round(time.Microsecond)
		return domain.Document{
			ID:          uuid.New(),
			CaseID:      caseID,
			FileName:    name,
			StorageName: domain.NewStorageName(name),
			ContentType: "application/pdf",
			Size:        1024,
			Category:    "evidence",
			Version:     1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	t.Run("Create and FindByID - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		caseID := postgres.InsertTestCase(t, dbConnection)
		doc := newDocument(t, caseID, "brief.pdf")

		// Act
		err := docRepo.Create(ctx, doc)

		// Assert
		require.NoError(t, err)
		saved, err := docRepo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		require.Equal(t, doc.StorageName, saved.StorageName)
		require.Equal(t, 0, saved.SortOrder)
		require.Equal(t, 1, saved.Version)
	})

	t.Run("Create - Duplicate storage name", func(t *testing.T) {
		// Arrange
		truncate()
		caseID := postgres.InsertTestCase(t, dbConnection)
		doc := newDocument(t, caseID, "brief.pdf")
		require.NoError(t, docRepo.Create(ctx, doc))
		dup := newDocument(t, caseID, "brief.pdf")
		dup.StorageName = doc.StorageName

		// Act
		err := docRepo.Create(ctx, dup)

		// Assert
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("FindByIDs - Reports only existing documents", func(t *testing.T) {
		// Arrange
		truncate()
		caseID := postgres.InsertTestCase(t, dbConnection)
		a := newDocument(t, caseID, "a.pdf")
		b := newDocument(t, caseID, "b.pdf")
		require.NoError(t, docRepo.Create(ctx, a))
		require.NoError(t, docRepo.Create(ctx, b))

		// Act
		docs, err := docRepo.FindByIDs(ctx, []uuid.UUID{a.ID, uuid.New(), b.ID})

		// Assert
		require.NoError(t, err)
		require.Len(t, docs, 2)
	})

	t.Run("UpdateAll - Shared timestamp", func(t *testing.T) {
		// Arrange
		truncate()
		caseID := postgres.InsertTestCase(t, dbConnection)
		a := newDocument(t, caseID, "a.pdf")
		b := newDocument(t, caseID, "b.pdf")
		require.NoError(t, docRepo.Create(ctx, a))
		require.NoError(t, docRepo.Create(ctx, b))
		stamp := time.Now().Add(time.Hour).Round(time.Microsecond)

		// Act
		n, err := docRepo.UpdateAll(ctx, []uuid.UUID{a.ID, b.ID},
			domain.DocumentPatch{Field: domain.DocumentFieldRemarks, Value: "reviewed"}, stamp)

		// Assert
		require.NoError(t, err)
		require.Equal(t, int64(2), n)
		for _, id := range []uuid.UUID{a.ID, b.ID} {
			saved, err := docRepo.FindByID(ctx, id)
			require.NoError(t, err)
			require.Equal(t, "reviewed", saved.Remarks)
			require.WithinDuration(t, stamp, saved.UpdatedAt, time.Millisecond)
		}
	})

	t.Run("DeleteAll - Removes listed rows only", func(t *testing.T) {
		// Arrange
		truncate()
		caseID := postgres.InsertTestCase(t, dbConnection)
		a := newDocument(t, caseID, "a.pdf")
		b := newDocument(t, caseID, "b.pdf")
		c := newDocument(t, caseID, "c.pdf")
		for _, d := range []domain.Document{a, b, c} {
			require.NoError(t, docRepo.Create(ctx, d))
		}

		// Act
		n, err := docRepo.DeleteAll(ctx, []uuid.UUID{a.ID, c.ID})

		// Assert
		require.NoError(t, err)
		require.Equal(t, int64(2), n)
		_, err = docRepo.FindByID(ctx, a.ID)
		require.ErrorIs(t, err, domain.ErrDocumentNotFound)
		_, err = docRepo.FindByID(ctx, b.ID)
		require.NoError(t, err)
	})

	t.Run("CaseRepo Exists", func(t *testing.T) {
		// Arrange
		truncate()
		caseID := postgres.InsertTestCase(t, dbConnection)

		// Act
		found, err := caseRepo.Exists(ctx, caseID)
		require.NoError(t, err)
		missing, err := caseRepo.Exists(ctx, uuid.New())
		require.NoError(t, err)

		// Assert
		require.True(t, found)
		require.False(t, missing)
	})
}
