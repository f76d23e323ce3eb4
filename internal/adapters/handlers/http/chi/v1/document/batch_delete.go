package document

import (
	"encoding/json"
	"net/http"

	v1 "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1"
	"github.com/google/uuid"
)

// V1BatchRequest names the documents a batch applies to
type V1BatchRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// V1BatchDeleteResponse is the response to a batch delete
type V1BatchDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// BatchDeleteV1 is the function that handles BatchDelete
func (h *HandlerV1) BatchDeleteV1(w http.ResponseWriter, r *http.Request) {
	var req V1BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := h.batchService.BatchDelete(r.Context(), req.IDs)
	if err != nil {
		v1.WriteError(w, h.logger, err)
		return
	}

	v1.WriteJSON(w, h.logger, http.StatusOK, V1BatchDeleteResponse{Deleted: deleted})
}
