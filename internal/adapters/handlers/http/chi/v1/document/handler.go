package document

import (
	"log/slog"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HandlerV1 is the handler for v1 document batch routes
type HandlerV1 struct {
	batchService port.BatchService
	logger       *slog.Logger
}

// NewDocumentHandlerV1 creates HandlerV1
func NewDocumentHandlerV1(service port.BatchService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		batchService: service,
		logger:       logger,
	}
}

// Routes exposes handler routes. requestTimeout bounds the catalog
// operations; the archive stream runs until the client or server stops it.
func (h *HandlerV1) Routes(requestTimeout time.Duration) chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Post("/batch-delete", h.BatchDeleteV1)
		r.Put("/batch-remarks", h.BatchUpdateRemarksV1)
		r.Put("/batch-category", h.BatchUpdateCategoryV1)
	})
	router.Post("/batch-download", h.BatchDownloadV1)

	return router
}
