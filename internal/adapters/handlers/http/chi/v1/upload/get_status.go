package upload

import (
	"net/http"
	"time"

	v1 "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1"
	"github.com/google/uuid"
)

// V1TaskStatusResponse is the response to get an upload task
type V1TaskStatusResponse struct {
	TaskID         uuid.UUID `json:"task_id"`
	FileName       string    `json:"file_name"`
	FileSize       int64     `json:"file_size"`
	State          string    `json:"state"`
	TotalChunks    int       `json:"total_chunks"`
	ReceivedChunks []int     `json:"received_chunks"`
	MissingChunks  []int     `json:"missing_chunks"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GetStatusV1 is the function that handles GetStatus
func (h *HandlerV1) GetStatusV1(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.uploadService.GetStatus(r.Context(), taskID)
	if err != nil {
		v1.WriteError(w, h.logger, err)
		return
	}

	received := task.ReceivedChunks
	if received == nil {
		received = []int{}
	}
	v1.WriteJSON(w, h.logger, http.StatusOK, V1TaskStatusResponse{
		TaskID:         task.ID,
		FileName:       task.FileName,
		FileSize:       task.FileSize,
		State:          string(task.State),
		TotalChunks:    task.TotalChunks,
		ReceivedChunks: received,
		MissingChunks:  task.MissingChunks(),
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	})
}
