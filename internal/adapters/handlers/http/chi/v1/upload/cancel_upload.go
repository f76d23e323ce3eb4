package upload

import (
	"net/http"

	v1 "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1"
)

// CancelUploadV1 is the function that handles CancelUpload
func (h *HandlerV1) CancelUploadV1(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if err := h.uploadService.CancelUpload(r.Context(), taskID); err != nil {
		v1.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
