package document

import (
	"encoding/json"
	"net/http"

	v1 "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
)

// V1BatchRemarksRequest sets the remarks of many documents
type V1BatchRemarksRequest struct {
	IDs     []uuid.UUID `json:"ids"`
	Remarks string      `json:"remarks"`
}

// V1BatchCategoryRequest sets the category of many documents
type V1BatchCategoryRequest struct {
	IDs      []uuid.UUID `json:"ids"`
	Category string      `json:"category"`
}

// V1BatchUpdateResponse is the response to a batch update
type V1BatchUpdateResponse struct {
	Updated int `json:"updated"`
}

// BatchUpdateRemarksV1 is the function that handles BatchUpdate on remarks
func (h *HandlerV1) BatchUpdateRemarksV1(w http.ResponseWriter, r *http.Request) {
	var req V1BatchRemarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.batchUpdate(w, r, req.IDs, domain.DocumentFieldRemarks, req.Remarks)
}

// BatchUpdateCategoryV1 is the function that handles BatchUpdate on category
func (h *HandlerV1) BatchUpdateCategoryV1(w http.ResponseWriter, r *http.Request) {
	var req V1BatchCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.batchUpdate(w, r, req.IDs, domain.DocumentFieldCategory, req.Category)
}

func (h *HandlerV1) batchUpdate(w http.ResponseWriter, r *http.Request, ids []uuid.UUID, field domain.DocumentField, value string) {
	updated, err := h.batchService.BatchUpdate(r.Context(), ids, field, value)
	if err != nil {
		v1.WriteError(w, h.logger, err)
		return
	}

	v1.WriteJSON(w, h.logger, http.StatusOK, V1BatchUpdateResponse{Updated: updated})
}
