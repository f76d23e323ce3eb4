package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
)

// V1ItemFailure is one failed item of a batch
type V1ItemFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// V1PartialFailureResponse is the body returned when a batch only partly succeeded
type V1PartialFailureResponse struct {
	Error     string          `json:"error"`
	Operation string          `json:"operation"`
	Failures  []V1ItemFailure `json:"failures"`
	Succeeded []uuid.UUID     `json:"succeeded"`
}

// WriteError maps a service error to its HTTP status
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var partial *domain.PartialFailureError
	switch {
	case errors.As(err, &partial):
		resp := V1PartialFailureResponse{
			Error:     "partial failure",
			Operation: partial.Operation,
			Failures:  make([]V1ItemFailure, 0, len(partial.Failures)),
			Succeeded: partial.Succeeded,
		}
		if resp.Succeeded == nil {
			resp.Succeeded = []uuid.UUID{}
		}
		for _, f := range partial.Failures {
			resp.Failures = append(resp.Failures, V1ItemFailure{ID: f.ID, Reason: f.Reason})
		}
		logger.Warn("batch partially failed", "operation", partial.Operation, "failed", len(partial.Failures))
		WriteJSON(w, logger, http.StatusBadGateway, resp)
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrAssembly):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrStorage):
		logger.Error("storage failure", "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		logger.Error("unexpected error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// WriteJSON encodes resp with status
func WriteJSON(w http.ResponseWriter, logger *slog.Logger, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("error encoding response", "error", err)
	}
}
