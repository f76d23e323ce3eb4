package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskState represents the lifecycle state of an upload task
type TaskState string

const (
	TaskStateInitialized TaskState = "INITIALIZED"
	TaskStateInProgress  TaskState = "IN_PROGRESS"
	TaskStateCompleted   TaskState = "COMPLETED"
	TaskStateMerging     TaskState = "MERGING"
	TaskStateMerged      TaskState = "MERGED"
	TaskStateFailed      TaskState = "FAILED"
	TaskStateCanceled    TaskState = "CANCELED"
)

// TaskEvent is something that happened to an upload task
type TaskEvent string

const (
	TaskEventChunkAccepted     TaskEvent = "chunk_accepted"
	TaskEventAllChunksReceived TaskEvent = "all_chunks_received"
	TaskEventMergeStarted      TaskEvent = "merge_started"
	TaskEventMergeSucceeded    TaskEvent = "merge_succeeded"
	TaskEventFail              TaskEvent = "fail"
	TaskEventCancel            TaskEvent = "cancel"
)

// ParseTaskState parses a state name, case-insensitively
func ParseTaskState(s string) (TaskState, error) {
	state := TaskState(strings.ToUpper(strings.TrimSpace(s)))
	switch state {
	case TaskStateInitialized, TaskStateInProgress, TaskStateCompleted, TaskStateMerging,
		TaskStateMerged, TaskStateFailed, TaskStateCanceled:
		return state, nil
	}
	return "", fmt.Errorf("%w: unknown task state %q", ErrValidation, s)
}

// IsTerminal reports whether no further transition exists out of the state
func (s TaskState) IsTerminal() bool {
	return s == TaskStateMerged || s == TaskStateFailed || s == TaskStateCanceled
}

// AcceptsChunks reports whether chunks may still be submitted
func (s TaskState) AcceptsChunks() bool {
	return s == TaskStateInitialized || s == TaskStateInProgress
}

// Expirable reports whether the expiry sweep may remove a task in this state.
// COMPLETED, MERGING and MERGED are never auto-expired.
func (s TaskState) Expirable() bool {
	switch s {
	case TaskStateInitialized, TaskStateInProgress, TaskStateFailed, TaskStateCanceled:
		return true
	}
	return false
}

// ExpirableStates lists the states the expiry sweep selects
func ExpirableStates() []TaskState {
	return []TaskState{TaskStateInitialized, TaskStateInProgress, TaskStateFailed, TaskStateCanceled}
}

// Transition returns the state reached by applying event to s,
// or ErrInvalidState when the event is not legal in s.
func (s TaskState) Transition(event TaskEvent) (TaskState, error) {
	switch event {
	case TaskEventChunkAccepted:
		if s.AcceptsChunks() {
			return TaskStateInProgress, nil
		}
	case TaskEventAllChunksReceived:
		if s.AcceptsChunks() {
			return TaskStateCompleted, nil
		}
	case TaskEventMergeStarted:
		if s == TaskStateCompleted {
			return TaskStateMerging, nil
		}
	case TaskEventMergeSucceeded:
		if s == TaskStateMerging {
			return TaskStateMerged, nil
		}
	case TaskEventFail:
		if !s.IsTerminal() {
			return TaskStateFailed, nil
		}
	case TaskEventCancel:
		if !s.IsTerminal() {
			return TaskStateCanceled, nil
		}
	}
	return s, fmt.Errorf("%w: cannot apply %s to task in state %s", ErrInvalidState, event, s)
}

// UploadRequest carries the client-declared attributes of a new upload
type UploadRequest struct {
	FileName    string
	FileSize    int64
	ContentType string
	CaseID      uuid.UUID
	Category    string
	Remarks     string
}

// UploadTask is one chunked upload attempt
type UploadTask struct {
	ID             uuid.UUID
	FileName       string
	FileSize       int64
	ContentType    string
	ChunkSize      int64
	TotalChunks    int
	ReceivedChunks []int
	StorageName    string
	CaseID         uuid.UUID
	Category       string
	Remarks        string
	State          TaskState
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUploadTask builds an INITIALIZED task with a fresh id and storage name
func NewUploadTask(req UploadRequest, chunkSize int64, now time.Time) UploadTask {
	return UploadTask{
		ID:             uuid.New(),
		FileName:       req.FileName,
		FileSize:       req.FileSize,
		ContentType:    req.ContentType,
		ChunkSize:      chunkSize,
		TotalChunks:    TotalChunks(req.FileSize, chunkSize),
		ReceivedChunks: []int{},
		StorageName:    NewStorageName(req.FileName),
		CaseID:         req.CaseID,
		Category:       req.Category,
		Remarks:        req.Remarks,
		State:          TaskStateInitialized,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// TotalChunks returns ceil(fileSize / chunkSize)
func TotalChunks(fileSize, chunkSize int64) int {
	if fileSize <= 0 || chunkSize <= 0 {
		return 0
	}
	return int((fileSize + chunkSize - 1) / chunkSize)
}

// NewStorageName generates a blob key unique per attempt: <random>_<base name>
func NewStorageName(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return uuid.NewString() + "_" + base
}

// ReceivedCount is the number of distinct chunk indices accepted so far
func (t *UploadTask) ReceivedCount() int {
	return len(t.ReceivedChunks)
}

// ExpectedChunkSize returns the exact byte length of chunk index (1-based).
// Every chunk is ChunkSize long except the last, which carries the remainder.
func (t *UploadTask) ExpectedChunkSize(index int) int64 {
	if index < 1 || index > t.TotalChunks {
		return 0
	}
	if index < t.TotalChunks {
		return t.ChunkSize
	}
	return t.FileSize - int64(t.TotalChunks-1)*t.ChunkSize
}

// MissingChunks lists the indices in 1..TotalChunks not received yet
func (t *UploadTask) MissingChunks() []int {
	have := make(map[int]struct{}, len(t.ReceivedChunks))
	for _, idx := range t.ReceivedChunks {
		have[idx] = struct{}{}
	}
	missing := make([]int, 0, max(t.TotalChunks-len(have), 0))
	for i := 1; i <= t.TotalChunks; i++ {
		if _, ok := have[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// ChunkAcceptance is the outcome of a successfully stored chunk
type ChunkAcceptance struct {
	TaskID         uuid.UUID
	ChunkIndex     int
	ReceivedChunks int
	TotalChunks    int
	State          TaskState
	Completed      bool
}
