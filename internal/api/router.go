package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds the storage ping on the health route.
const healthCheckTimeout = 3 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check (no auth required)
	r.Get("/health", s.handleHealth)

	// User accounts
	r.Route("/users", func(r chi.Router) {
		// Open endpoints
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/activate", s.handleActivate)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Post("/change-password", s.handleChangePassword)
			r.Get("/{id}", s.handleGetUser) // self or admin, checked in handler
		})

		// Admin endpoints
		r.With(s.requireAdmin).Get("/", s.handleListUsers)
	})

	// Hardware catalog: reads authenticated, writes admin-only
	r.Route("/hardwares", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.handleListHardware)
			r.Get("/{id}", s.handleGetHardware)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/", s.handleCreateHardware)
			r.Put("/{id}", s.handleUpdateHardware)
			r.Delete("/{id}", s.handleDeleteHardware)
		})
	})

	// Nodes: visibility and ownership resolved per-operation
	r.Route("/nodes", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/", s.handleListNodes)
		r.Post("/", s.handleCreateNode)
		r.Get("/{id}", s.handleGetNode)
		r.Put("/{id}", s.handleUpdateNode)
		r.Delete("/{id}", s.handleDeleteNode)
	})

	// Feed ingestion over HTTP
	r.With(s.requireUser).Post("/channel", s.handleIngestFeed)

	// Unmatched routes resolve to the envelope, not a bare 404
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusNotFound, MessageNotFound, None())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusNotFound, MessageNotFound, None())
	})

	return r
}

// handleHealth reports gateway and storage health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.db.HealthCheck(ctx); err != nil {
			s.logger.Error("health check failed", "error", err)
			respond(w, http.StatusServiceUnavailable, MessageInternalServerError, None())
			return
		}
		status["database"] = "ok"
	}

	respond(w, http.StatusOK, MessageOK, Single(status))
}
