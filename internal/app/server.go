package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/api/handlers"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/api/middlewares"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/config"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/ingest"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, obj core.ObjectClient, pipeline *ingest.Pipeline, session *services.Session, logger zerolog.Logger) *Server {
	ingestHandler := handlers.NewIngestHandler(obj, pipeline)
	queryHandler := handlers.NewQueryHandler(session)
	settingsHandler := handlers.NewSettingsHandler(session, cfg.SettingsPath)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/provision", ingestHandler.Provision)
		api.Post("/documents", ingestHandler.UploadDocument)
		api.Post("/query", queryHandler.Query)
		api.Get("/history", queryHandler.History)
		api.Post("/history/save", queryHandler.SaveHistory)
		api.Get("/settings", settingsHandler.Get)
		api.Put("/settings", settingsHandler.Update)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: r,
		},
		logger: logger,
	}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
