package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/haemilia/Ybigta-HDMedi/internal/config"
	"github.com/haemilia/Ybigta-HDMedi/internal/keywords"
	"github.com/haemilia/Ybigta-HDMedi/internal/pipeline"
)

// Server is the HTTP API server for the label annotation service.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	keywords     keywords.Config
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, kw keywords.Config, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		keywords:     kw,
		log:          log,
		cfg:          cfg,
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

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/segment", s.handleSegment)
		r.Post("/api/annotate", s.handleAnnotate)
		r.Post("/api/annotate/file", s.handleAnnotateFile)
		r.Post("/api/annotate/batch", s.handleBatchAnnotate)
		r.Post("/api/annotate/csv", s.handleCSVAnnotate)
		r.Get("/api/annotate/{jobID}", s.handleJobStatus)
		r.Get("/api/stats/pipeline", s.handlePipelineStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
