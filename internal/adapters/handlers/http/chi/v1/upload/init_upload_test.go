package upload_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	httpgo "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi"
	uploadhandler "github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	uploadservice "github.com/JunyuZhan/lawfirm-archive/internal/core/service/upload"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testChunkSize = 4

func newRouter(service *uploadservice.MockUploadService) httpgo.Handler {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := uploadhandler.NewUploadHandlerV1(service, testChunkSize, discardLogger)
	return chi.NewRouter(discardLogger, handler, nil, "", 1<<20)
}

func TestInitUploadV1(t *testing.T) {
	caseID := uuid.New()

	t.Run("nominal - task created", func(t *testing.T) {
		// Arrange
		service := uploadservice.NewMockUploadService()
		task := domain.NewUploadTask(domain.UploadRequest{FileName: "brief.pdf", FileSize: 10, CaseID: caseID}, testChunkSize, time.Now())
		service.On("InitUpload", mock.Anything, domain.UploadRequest{
			FileName: "brief.pdf", FileSize: 10, ContentType: "application/pdf", CaseID: caseID, Category: "pleadings",
		}).Return(&task, nil)
		h := newRouter(service)
		w := httptest.NewRecorder()
		body := fmt.Sprintf(`{"file_name":"brief.pdf","file_size":10,"content_type":"application/pdf","case_id":%q,"category":"pleadings"}`, caseID)
		req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/upload/init", strings.NewReader(body))

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, httpgo.StatusCreated, w.Code)
		var resp uploadhandler.V1InitUploadResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, task.ID, resp.TaskID)
		assert.Equal(t, 3, resp.TotalChunks)
		assert.Equal(t, int64(testChunkSize), resp.ChunkSize)
		assert.Equal(t, "INITIALIZED", resp.State)
		service.AssertExpectations(t)
	})

	t.Run("error - malformed body", func(t *testing.T) {
		// Arrange
		service := uploadservice.NewMockUploadService()
		h := newRouter(service)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/upload/init", strings.NewReader(`{"file_size":`))

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "InitUpload", mock.Anything, mock.Anything)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
		}{
			{"validation", fmt.Errorf("%w: file size must be positive", domain.ErrValidation), httpgo.StatusBadRequest},
			{"unknown case", domain.ErrCaseNotFound, httpgo.StatusNotFound},
			{"staging failure", fmt.Errorf("%w: disk full", domain.ErrStorage), httpgo.StatusServiceUnavailable},
			{"unexpected", assert.AnError, httpgo.StatusInternalServerError},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				// Arrange
				service := uploadservice.NewMockUploadService()
				service.On("InitUpload", mock.Anything, mock.Anything).Return(nil, tt.err)
				h := newRouter(service)
				w := httptest.NewRecorder()
				req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/upload/init", strings.NewReader(`{"file_name":"a.txt","file_size":1}`))

				// Act
				h.ServeHTTP(w, req)

				// Assert
				assert.Equal(t, tt.status, w.Code)
			})
		}
	})
}
