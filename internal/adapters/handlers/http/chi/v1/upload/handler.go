package upload

import (
	"log/slog"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	chunkSize     int64
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1. chunkSize bounds the body of a chunk request.
func NewUploadHandlerV1(service port.UploadService, chunkSize int64, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		chunkSize:     chunkSize,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/init", h.InitUploadV1)
	router.Put("/{taskID}/chunks/{index}", h.UploadChunkV1)
	router.Get("/{taskID}", h.GetStatusV1)
	router.Post("/{taskID}/merge", h.MergeChunksV1)
	router.Delete("/{taskID}", h.CancelUploadV1)

	return router
}
