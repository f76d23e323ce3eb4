package upload

import (
	"net/http"
	"strconv"

	v1 "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// V1UploadChunkResponse is the response to a stored chunk
type V1UploadChunkResponse struct {
	TaskID         uuid.UUID `json:"task_id"`
	ChunkIndex     int       `json:"chunk_index"`
	ReceivedChunks int       `json:"received_chunks"`
	TotalChunks    int       `json:"total_chunks"`
	State          string    `json:"state"`
	Completed      bool      `json:"completed"`
}

// UploadChunkV1 is the function that handles UploadChunk.
// The body is the raw chunk payload.
func (h *HandlerV1) UploadChunkV1(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "chunk index must be an integer", http.StatusBadRequest)
		return
	}
	totalChunks, err := strconv.Atoi(r.URL.Query().Get("total_chunks"))
	if err != nil {
		http.Error(w, "total_chunks must be an integer", http.StatusBadRequest)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.chunkSize+1)
	defer body.Close()

	acceptance, err := h.uploadService.ProcessChunk(r.Context(), taskID, index, totalChunks, body)
	if err != nil {
		v1.WriteError(w, h.logger, err)
		return
	}

	v1.WriteJSON(w, h.logger, http.StatusOK, V1UploadChunkResponse{
		TaskID:         acceptance.TaskID,
		ChunkIndex:     acceptance.ChunkIndex,
		ReceivedChunks: acceptance.ReceivedChunks,
		TotalChunks:    acceptance.TotalChunks,
		State:          string(acceptance.State),
		Completed:      acceptance.Completed,
	})
}
