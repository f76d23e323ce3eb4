package upload

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID := chi.URLParam(r, "taskID")
	if taskID == "" {
		http.Error(w, "task id is required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(taskID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
