// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

This package is the topmost transport boundary: only it and cmd/api touch
net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kietvo/scolara/internal/platform/config"
	"github.com/kietvo/scolara/internal/platform/constants"
	"github.com/kietvo/scolara/internal/platform/middleware"
	"github.com/kietvo/scolara/internal/school/identity"
	"github.com/kietvo/scolara/internal/school/students"
)

// Server wraps the chi router and the [http.Server].
// It is constructed once in main with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups all domain-specific HTTP handler sets.
// New domains add a field here; no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — 200 whenever the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Identity handles authentication routes (login, me, signup).
	Identity *identity.Handler

	// Students handles student records and marks.
	Students *students.Handler
}

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, revocations middleware.TokenRevocations, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, revocations))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Route prefixes match what the dashboard frontend calls.
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", h.Identity.Routes())
		api.Mount("/students", h.Students.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Router exposes the configured router, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until it is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
