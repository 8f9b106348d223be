package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"hnherald/internal/config"
	"hnherald/internal/core"
	"hnherald/internal/logger"
	"hnherald/internal/pipeline"
)

// DigestGenerator runs one digest generation per request. Satisfied by
// *pipeline.Pipeline.
type DigestGenerator interface {
	Generate(ctx context.Context, profile core.UserProfile) (*pipeline.Result, error)
}

// Server is the HTTP boundary: it accepts a profile, runs the pipeline,
// and maps the result to a response. It holds no state between requests.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	generator  DigestGenerator
	config     config.Server
	log        *slog.Logger
}

// New creates an HTTP server around a digest generator.
func New(generator DigestGenerator, cfg config.Server) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		generator: generator,
		config:    cfg,
		log:       logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  parseDuration(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: parseDuration(cfg.WriteTimeout, 60*time.Second),
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Digest generation fans out dozens of upstream requests; the
	// request timeout has to cover a full pipeline run.
	s.router.Use(middleware.Timeout(2 * time.Minute))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/api/digest", s.handleGenerateDigest)
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Router exposes the chi router for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
