package http

import (
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/problems/extract", h.ExtractProblem).Methods(http.MethodPost)
	v1.HandleFunc("/solutions", h.GenerateSolution).Methods(http.MethodPost)
	v1.HandleFunc("/solutions/debug", h.DebugWithImages).Methods(http.MethodPost)
	v1.HandleFunc("/audio/analyze", h.AnalyzeAudio).Methods(http.MethodPost)
	v1.HandleFunc("/images/analyze", h.AnalyzeImage).Methods(http.MethodPost)
	v1.HandleFunc("/follow-ups", h.FollowUp).Methods(http.MethodPost)

	v1.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	v1.HandleFunc("/sessions", h.ListSessions).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)
	v1.HandleFunc("/sessions/{id}/messages", h.Ask).Methods(http.MethodPost)
	v1.HandleFunc("/sessions/{id}/messages", h.Turns).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	return r
}

// LogRequests logs one line per request once it completes.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		slog.InfoContext(
			r.Context(),
			"http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
		)
	})
}
