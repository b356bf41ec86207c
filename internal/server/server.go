package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thywilljoshua/pdf-split/internal/ai"
	"github.com/thywilljoshua/pdf-split/internal/config"
)

// Server is the HTTP API for splitting uploaded PDFs.
type Server struct {
	router   chi.Router
	enhancer ai.Enhancer
	log      *slog.Logger
	cfg      config.Config
}

// New creates and configures the HTTP server. enhancer may be nil.
func New(cfg config.Config, enhancer ai.Enhancer, log *slog.Logger) *Server {
	s := &Server{
		enhancer: enhancer,
		log:      log,
		cfg:      cfg,
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

	r.Get("/health", s.handleHealth)

	r.Post("/api/split", s.handleSplit)
	r.Post("/api/plan", s.handlePlan)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
