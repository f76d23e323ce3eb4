package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrValidation is returned when the caller supplied bad input
var ErrValidation = errors.New("validation failed")

// ErrNotFound is the parent of every lookup failure
var ErrNotFound = errors.New("not found")

// ErrTaskNotFound is returned when an upload task does not exist
var ErrTaskNotFound = fmt.Errorf("upload task %w", ErrNotFound)

// ErrDocumentNotFound is returned when one or more documents do not exist
var ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)

// ErrCaseNotFound is returned when the owning case does not exist
var ErrCaseNotFound = fmt.Errorf("case %w", ErrNotFound)

// ErrObjectNotFound is returned by object storage when a blob is absent
var ErrObjectNotFound = fmt.Errorf("object %w", ErrNotFound)

// ErrAlreadyExists is returned when an entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrInvalidState is returned when an operation is not legal in the task's current state
var ErrInvalidState = errors.New("invalid state")

// ErrAssembly is returned when staged chunks cannot be reassembled
var ErrAssembly = errors.New("chunk assembly failed")

// ErrStorage is returned when the blob backend or the staging area fails
var ErrStorage = errors.New("storage failure")

// ErrPartialFailure is matched by PartialFailureError
var ErrPartialFailure = errors.New("partial failure")

// ItemFailure describes why a single item of a batch failed
type ItemFailure struct {
	ID     uuid.UUID
	Reason string
}

// PartialFailureError is returned by batch operations with mixed outcomes
type PartialFailureError struct {
	Operation string
	Failures  []ItemFailure
	Succeeded []uuid.UUID
}

func (e *PartialFailureError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", f.ID, f.Reason))
	}
	return fmt.Sprintf("%s: %s failed for %d item(s): %s",
		ErrPartialFailure, e.Operation, len(e.Failures), strings.Join(parts, "; "))
}

func (e *PartialFailureError) Unwrap() error {
	return ErrPartialFailure
}

// FailedIDs returns the ids of the failed items in report order
func (e *PartialFailureError) FailedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ID)
	}
	return ids
}
