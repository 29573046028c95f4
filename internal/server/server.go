// Package server wires the stores, handlers, and middleware into the HTTP
// surface of the dataset service.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kamerdata/kamerarchief/internal/archive"
	"github.com/kamerdata/kamerarchief/internal/handler"
	"github.com/kamerdata/kamerarchief/internal/ingest"
	"github.com/kamerdata/kamerarchief/internal/middleware"
	"github.com/kamerdata/kamerarchief/internal/store"
	ws "github.com/kamerdata/kamerarchief/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	memberH     *handler.MemberHandler
	appointH    *handler.AppointmentHandler
	datasetH    *handler.DatasetHandler
	archiveH    *handler.ArchiveHandler
	rateLimiter *middleware.RateLimiter
	rateLimit   int
	logger      *slog.Logger
}

func New(db *sql.DB, ing *ingest.Ingester, archiveMgr *archive.Manager, hub *ws.Hub, rateLimit int, logger *slog.Logger) *Server {
	memberStore := store.NewMemberStore(db)
	appointmentStore := store.NewAppointmentStore(db)
	loadStore := store.NewLoadStore(db)
	archiveStore := store.NewArchiveStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		memberH:     handler.NewMemberHandler(memberStore, appointmentStore, logger.With("component", "member")),
		appointH:    handler.NewAppointmentHandler(appointmentStore, logger.With("component", "appointment")),
		datasetH:    handler.NewDatasetHandler(ing, loadStore, hub, logger.With("component", "dataset")),
		archiveH:    handler.NewArchiveHandler(archiveMgr, archiveStore, logger.With("component", "archive")),
		rateLimiter: middleware.NewRateLimiter(),
		rateLimit:   rateLimit,
		logger:      logger,
	}
}

// DatasetHandler returns the dataset handler so the startup ingest and the
// file watcher can record their results.
func (s *Server) DatasetHandler() *handler.DatasetHandler {
	return s.datasetH
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("GET /api/members/parties", s.memberH.Parties)
	mux.HandleFunc("GET /api/persons/{last_name}", s.memberH.Person)

	mux.HandleFunc("GET /api/appointments", s.appointH.List)
	mux.HandleFunc("GET /api/cabinets", s.appointH.Cabinets)

	mux.HandleFunc("GET /api/dataset/status", s.datasetH.Status)
	mux.HandleFunc("GET /api/dataset/report", s.datasetH.Report)
	mux.HandleFunc("POST /api/dataset/reload", s.rateLimitedHandler(s.datasetH.Reload))

	mux.HandleFunc("GET /api/archive", s.archiveH.List)
	mux.HandleFunc("POST /api/archive/run", s.rateLimitedHandler(s.archiveH.Run))

	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// rateLimitedHandler guards mutating endpoints: reloads and snapshots are
// cheap to request and expensive to serve.
func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, s.rateLimit, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
