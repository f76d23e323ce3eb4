package chi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1/document"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// requestTimeout bounds every route except the batch archive stream
const requestTimeout = 60 * time.Second

// NewRouter builds http.Handler with chi.
// maxBodyBytes caps every request body and must leave room for one chunk.
func NewRouter(logger *slog.Logger, uploadHandler *upload.HandlerV1, documentHandler *document.HandlerV1, env string, maxBodyBytes int64) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodyBytes))

	if env != "prod" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.Timeout(requestTimeout)).Mount("/upload", uploadHandler.Routes())
		r.Mount("/documents", documentHandler.Routes(requestTimeout))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	})

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
