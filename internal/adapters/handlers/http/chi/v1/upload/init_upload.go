package upload

import (
	"encoding/json"
	"net/http"

	v1 "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
)

// V1InitUploadRequest is the request to open an upload task
type V1InitUploadRequest struct {
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	CaseID      uuid.UUID `json:"case_id"`
	Category    string    `json:"category"`
	Remarks     string    `json:"remarks"`
}

// V1InitUploadResponse is the response to open an upload task
type V1InitUploadResponse struct {
	TaskID      uuid.UUID `json:"task_id"`
	ChunkSize   int64     `json:"chunk_size"`
	TotalChunks int       `json:"total_chunks"`
	StorageName string    `json:"storage_name"`
	State       string    `json:"state"`
}

// InitUploadV1 is the function that handles InitUpload
func (h *HandlerV1) InitUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1InitUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := h.uploadService.InitUpload(r.Context(), domain.UploadRequest{
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		CaseID:      req.CaseID,
		Category:    req.Category,
		Remarks:     req.Remarks,
	})
	if err != nil {
		v1.WriteError(w, h.logger, err)
		return
	}

	v1.WriteJSON(w, h.logger, http.StatusCreated, V1InitUploadResponse{
		TaskID:      task.ID,
		ChunkSize:   task.ChunkSize,
		TotalChunks: task.TotalChunks,
		StorageName: task.StorageName,
		State:       string(task.State),
	})
}
