package http

import (
	"encoding/json"
	"net/http"

	"speech-transcript-manager/internal/app"
	"speech-transcript-manager/internal/merge/driver"
	"speech-transcript-manager/internal/merge/transcript"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP router for the service. store, if non-nil,
// backs the /v1/debug/transcript snapshot endpoint.
func NewRouter(application *app.Application, store *transcript.Transcript) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"message": "Hello from the transcript manager!"}`))
		})

		r.Get("/debug/transcript", func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			snapshot := driver.Serialize(store)
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(snapshot); err != nil {
				application.Logger.Error().Err(err).Msg("failed to encode transcript snapshot")
			}
		})
	})

	return r
}
