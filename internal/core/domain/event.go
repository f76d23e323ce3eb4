package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is a type that represents the type of an archive event
type EventType string

const (
	EventTypeDocumentMerged    EventType = "document.merged"
	EventTypeDocumentsDeleted  EventType = "documents.deleted"
	EventTypeDocumentsOrphaned EventType = "documents.orphaned"
)

// EventDocument identifies a document in an event payload
type EventDocument struct {
	ID          uuid.UUID `json:"id"`
	StorageName string    `json:"storage_name"`
}

// ArchiveEvent is published after catalog or blob changes
type ArchiveEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       EventType       `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	TaskID     *uuid.UUID      `json:"task_id,omitempty"`
	Documents  []EventDocument `json:"documents"`
}

// NewArchiveEvent builds an event naming docs
func NewArchiveEvent(eventType EventType, docs []Document, now time.Time) ArchiveEvent {
	refs := make([]EventDocument, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, EventDocument{ID: d.ID, StorageName: d.StorageName})
	}
	return ArchiveEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: now.UTC(),
		Documents:  refs,
	}
}
