// Package web provides the HTTP server and web UI for the taste profile app.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
)

// DefaultAddr is the default server address.
const DefaultAddr = ":5000"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// RateLimitRequests per RateLimitWindow are allowed per client IP on the
	// classification routes.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	TemplatesFS fs.FS
	StaticFS    fs.FS
}

// Server is the HTTP server for the web application.
type Server struct {
	router          chi.Router
	server          *http.Server
	handlers        *Handlers
	shutdownTimeout time.Duration
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig, classifier Classifier, catalog Catalog) (*Server, error) {
	// Create template manager
	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 90 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 30
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}

	s := &Server{
		router:          chi.NewRouter(),
		handlers:        NewHandlers(classifier, catalog, templates),
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(cfg ServerConfig) {
	// Static files
	if cfg.StaticFS != nil {
		fileServer := http.FileServer(http.FS(cfg.StaticFS))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	// Pages
	s.router.Get("/", s.handlers.Index)
	s.router.Get("/result", s.handlers.Result)

	// Catalog lookups
	s.router.Get("/search", s.handlers.Search)
	s.router.Get("/artist_tracks", s.handlers.ArtistTracks)

	// Classification
	s.router.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/mbti", s.handlers.Classify)
		r.Post("/api/classify", s.handlers.Classify)
	})

	// Operations
	s.router.Get("/healthz", s.handlers.Healthz)
	s.router.Handle("/metrics", promhttp.Handler())
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.Info().Str("addr", s.server.Addr).Msg("starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and shuts it down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for cancellation or error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}
