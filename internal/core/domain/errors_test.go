package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNotFoundHierarchy(t *testing.T) {
	for _, err := range []error{domain.ErrTaskNotFound, domain.ErrDocumentNotFound, domain.ErrCaseNotFound, domain.ErrObjectNotFound} {
		assert.ErrorIs(t, fmt.Errorf("lookup: %w", err), domain.ErrNotFound)
	}
}

func TestPartialFailureError(t *testing.T) {
	// Arrange
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	var err error = &domain.PartialFailureError{
		Operation: "batch delete",
		Failures:  []domain.ItemFailure{{ID: b, Reason: "timeout"}, {ID: c, Reason: "refused"}},
		Succeeded: []uuid.UUID{a},
	}

	// Act
	var partial *domain.PartialFailureError
	matched := errors.As(fmt.Errorf("wrapped: %w", err), &partial)

	// Assert
	assert.True(t, matched)
	assert.ErrorIs(t, err, domain.ErrPartialFailure)
	assert.Equal(t, []uuid.UUID{b, c}, partial.FailedIDs())
	assert.Contains(t, err.Error(), "2 item(s)")
	assert.Contains(t, err.Error(), b.String()+": timeout")
}

func TestParseDocumentField(t *testing.T) {
	field, err := domain.ParseDocumentField("Category")
	assert.NoError(t, err)
	assert.Equal(t, domain.DocumentFieldCategory, field)

	_, err = domain.ParseDocumentField("storage_name")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewArchiveEvent(t *testing.T) {
	// Arrange
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	doc := domain.Document{ID: uuid.New(), StorageName: "x_brief.pdf"}

	// Act
	event := domain.NewArchiveEvent(domain.EventTypeDocumentsDeleted, []domain.Document{doc}, now)

	// Assert
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
	assert.Nil(t, event.TaskID)
	assert.Equal(t, []domain.EventDocument{{ID: doc.ID, StorageName: "x_brief.pdf"}}, event.Documents)
}
