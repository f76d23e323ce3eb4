package upload

import (
	"net/http"
	"time"

	v1 "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1"
	"github.com/google/uuid"
)

// V1DocumentResponse is the catalog record created by a merge
type V1DocumentResponse struct {
	ID          uuid.UUID `json:"id"`
	CaseID      uuid.UUID `json:"case_id"`
	FileName    string    `json:"file_name"`
	StorageName string    `json:"storage_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Category    string    `json:"category"`
	Remarks     string    `json:"remarks"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// MergeChunksV1 is the function that handles MergeChunks
func (h *HandlerV1) MergeChunksV1(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	doc, err := h.uploadService.MergeChunks(r.Context(), taskID)
	if err != nil {
		v1.WriteError(w, h.logger, err)
		return
	}

	v1.WriteJSON(w, h.logger, http.StatusCreated, V1DocumentResponse{
		ID:          doc.ID,
		CaseID:      doc.CaseID,
		FileName:    doc.FileName,
		StorageName: doc.StorageName,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		Category:    doc.Category,
		Remarks:     doc.Remarks,
		Version:     doc.Version,
		CreatedAt:   doc.CreatedAt,
	})
}
