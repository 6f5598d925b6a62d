package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tbconrad/trailview/internal/config"
	"github.com/tbconrad/trailview/internal/store"
)

// Server is the HTTP API server for trailview.
type Server struct {
	router chi.Router
	store  *store.Store
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(st *store.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store: st,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints; auth only when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/session", s.handleLoadSession)
		r.Get("/api/session", s.handleSessionSummary)

		r.Post("/api/document", s.handleUploadDocument)
		r.Delete("/api/document", s.handleResetDocument)

		r.Get("/api/graph", s.handleGraph)
		r.Get("/api/timeline", s.handleTimeline)
		r.Get("/api/matches", s.handleMatches)

		r.Patch("/api/pages", s.handleEditPageMetadata)
		r.Delete("/api/pages", s.handleRemovePage)
		r.Post("/api/pages/notes", s.handleAddPageNote)
		r.Delete("/api/pages/notes", s.handleRemovePageNote)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
