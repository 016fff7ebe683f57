// Package server wires the HTTP surface: routing, middleware, and the
// role-gated API groups.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/onairhq/onair/internal/api/ws"
	"github.com/onairhq/onair/internal/audit"
	"github.com/onairhq/onair/internal/auth"
	"github.com/onairhq/onair/internal/config"
	"github.com/onairhq/onair/internal/live"
	"github.com/onairhq/onair/internal/obs"
	"github.com/onairhq/onair/internal/server/middleware"
	"github.com/onairhq/onair/internal/store/postgres"
	"github.com/onairhq/onair/internal/uploads"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	recorder   *audit.Recorder
	live       *live.Service
	wsHub      *ws.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired. ctx bounds background work
// started by middleware (rate limiter cleanup).
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, authSvc *auth.Service, rec *audit.Recorder, liveSvc *live.Service, fileStore *uploads.FileStore) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Compress(5))
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	router.Use(obs.Instrument)
	router.Use(middleware.RateLimitByIP(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	router.Use(middleware.CaptureMeta)

	hub := ws.NewHub(liveSvc)

	s := &Server{
		router:   router,
		store:    store,
		auth:     authSvc,
		recorder: rec,
		live:     liveSvc,
		wsHub:    hub,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	s.registerRoutes(fileStore)

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
