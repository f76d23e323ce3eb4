package document

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	v1 "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1"
)

// archiveWriter defers the zip headers until the first byte of the archive,
// so failures before that can still be reported with an error status.
type archiveWriter struct {
	w        http.ResponseWriter
	filename string
	started  bool
}

func (a *archiveWriter) Write(p []byte) (int, error) {
	if !a.started {
		a.started = true
		a.w.Header().Set("Content-Type", "application/zip")
		a.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.filename))
		a.w.WriteHeader(http.StatusOK)
	}
	return a.w.Write(p)
}

// BatchDownloadV1 is the function that handles BatchDownload.
// The response body is a zip archive of the requested documents.
func (h *HandlerV1) BatchDownloadV1(w http.ResponseWriter, r *http.Request) {
	var req V1BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	archive := &archiveWriter{
		w:        w,
		filename: fmt.Sprintf("documents-%s.zip", time.Now().UTC().Format("20060102-150405")),
	}
	err := h.batchService.BatchDownload(r.Context(), req.IDs, archive)
	switch {
	case err != nil && archive.started:
		h.logger.Error("archive stream aborted", "error", err, "documents", len(req.IDs))
	case err != nil:
		v1.WriteError(w, h.logger, err)
	}
}
