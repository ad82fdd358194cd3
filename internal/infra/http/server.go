// Package http provides the HTTP server and its middleware chain.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openauthz/api/internal/config"
	"github.com/openauthz/api/internal/infra/http/middleware"
	"github.com/openauthz/api/pkg/logger"
)

// Server represents the HTTP server.
type Server struct {
	httpServer   *http.Server
	router       chi.Router
	config       *config.Config
	logger       *logger.Logger
	cleanupFuncs []func()
}

// NewServer creates a new HTTP server with the global middleware chain
// applied.
func NewServer(cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: log,
	}

	rateLimitMw, rateLimitStop := middleware.RateLimitWithStop(&cfg.RateLimit, log)
	s.cleanupFuncs = append(s.cleanupFuncs, rateLimitStop)

	// Order matters: recovery first, request ID before logging.
	s.router.Use(
		middleware.Recovery(log, cfg.IsProduction()),
		middleware.RequestID(),
		middleware.BodyLimit(cfg.Server.MaxBodySize),
		rateLimitMw,
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.Metrics(),
		middleware.LoggerWithConfig(log, middleware.LoggerConfig{
			SkipPaths:            middleware.DefaultLoggerConfig().SkipPaths,
			SlowRequestThreshold: time.Duration(cfg.Log.SlowRequestSeconds) * time.Second,
		}),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  time.Minute,
	}

	return s
}

// Router returns the router for registering handlers.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.config.Server.Addr())

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	for _, cleanup := range s.cleanupFuncs {
		cleanup()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
