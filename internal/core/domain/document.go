package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is the catalog record of a stored blob
type Document struct {
	ID          uuid.UUID
	CaseID      uuid.UUID
	FileName    string
	StorageName string
	ContentType string
	Size        int64
	Category    string
	Remarks     string
	SortOrder   int
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDocumentFromTask builds the document created by a successful merge
func NewDocumentFromTask(task UploadTask, size int64, now time.Time) Document {
	return Document{
		ID:          uuid.New(),
		CaseID:      task.CaseID,
		FileName:    task.FileName,
		StorageName: task.StorageName,
		ContentType: task.ContentType,
		Size:        size,
		Category:    task.Category,
		Remarks:     task.Remarks,
		SortOrder:   0,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// DocumentField names a document attribute that can be changed in batch
type DocumentField string

const (
	DocumentFieldRemarks  DocumentField = "remarks"
	DocumentFieldCategory DocumentField = "category"
)

// ParseDocumentField validates a batch-updatable field name
func ParseDocumentField(s string) (DocumentField, error) {
	field := DocumentField(strings.ToLower(strings.TrimSpace(s)))
	switch field {
	case DocumentFieldRemarks, DocumentFieldCategory:
		return field, nil
	}
	return "", fmt.Errorf("%w: field %q cannot be batch updated", ErrValidation, s)
}

// DocumentPatch is a single-field change applied to many documents
type DocumentPatch struct {
	Field DocumentField
	Value string
}

// Case is the owning case file of documents
type Case struct {
	ID         uuid.UUID
	CaseNumber string
	Title      string
	CreatedAt  time.Time
}
