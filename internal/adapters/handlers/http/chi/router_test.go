package chi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	httpgo "net/http"
	"net/http/httptest"
	"testing"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	uploadservice "github.com/JunyuZhan/lawfirm-archive/internal/core/service/upload"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRouter(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("health is served and not logged", func(t *testing.T) {
		// Arrange
		var logs bytes.Buffer
		h := chi.NewRouter(slog.New(slog.NewJSONHandler(&logs, nil)), nil, nil, "prod", 1<<10)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodGet, "/health", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, httpgo.StatusOK, w.Code)
		var resp chi.HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Empty(t, logs.String())
	})

	t.Run("api requests are logged with a request id", func(t *testing.T) {
		// Arrange
		var logs bytes.Buffer
		id := uuid.New()
		service := uploadservice.NewMockUploadService()
		service.On("GetStatus", mock.Anything, id).Return(nil, domain.ErrTaskNotFound)
		handler := upload.NewUploadHandlerV1(service, 4, discardLogger)
		h := chi.NewRouter(slog.New(slog.NewJSONHandler(&logs, nil)), handler, nil, "prod", 1<<10)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodGet, "/api/v1/upload/"+id.String(), nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, httpgo.StatusNotFound, w.Code)
		var entry map[string]any
		require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
		assert.Equal(t, "http_request", entry["msg"])
		assert.Equal(t, float64(httpgo.StatusNotFound), entry["status"])
		assert.NotEmpty(t, entry["request_id"])
	})
}
