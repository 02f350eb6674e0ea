package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-ems/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)

		// WebSocket (auth via ticket, validated in handler)
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/commands/{device}", s.handleListCommands)

			r.Group(func(r chi.Router) {
				r.Use(requireToken)
				r.Post("/auth/ws-ticket", s.handleWSTicket)
			})

			r.Group(func(r chi.Router) {
				r.Use(requirePermission(auth.PermAuditRead))
				r.Get("/audit", s.handleListAuditLogs)
			})
		})
	})

	// Command paths: /api/<device>[/<command>...]
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/api/*", s.handleCommand)
		r.Post("/api/*", s.handleCommand)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
