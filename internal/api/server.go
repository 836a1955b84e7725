// Package api exposes the reconnection engine over HTTP.
//
// The API is stateless with respect to models: every request carries the
// model JSON in its body and receives the processed model back. Run records
// are the only server-side state, held in a report.Store.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kstrandberg/uncouple/pkg/buildinfo"
	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/reconnect"
	"github.com/kstrandberg/uncouple/pkg/report"
)

// Server holds the API's collaborators.
type Server struct {
	store report.Store
	th    reconnect.Thresholds
	log   *log.Logger
}

// NewServer creates a server. Zero-valued thresholds get the defaults; a nil
// store falls back to in-memory run storage; a nil logger to log.Default().
func NewServer(store report.Store, th reconnect.Thresholds, logger *log.Logger) *Server {
	if store == nil {
		store = report.NewMemoryStore()
	}
	if th == (reconnect.Thresholds{}) {
		th = reconnect.DefaultThresholds()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, th: th, log: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
		r.Post("/visualize", s.handleVisualize)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "err", err)
	}
}

// writeError maps engine error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidModel, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidElement:
		status = http.StatusBadRequest
	case errors.ErrCodeRunNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}
