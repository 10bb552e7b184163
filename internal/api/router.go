package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each component probe made by /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.metrics.instrument)
	r.Use(s.corsMiddleware)
	r.Use(s.rateLimitMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Health check and metrics (no auth required)
		r.Get("/health", s.handleHealth)
		r.Method(http.MethodGet, "/metrics", s.metrics.handler())

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/systems", func(r chi.Router) {
				r.Get("/", s.handleListSystems)
				r.Post("/", s.handleCreateSystem)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetSystem)
					r.Put("/", s.handleReplaceSystem)
					r.Patch("/", s.handlePatchSystem)
					r.Delete("/", s.handleDeleteSystem)
				})
			})

			r.Route("/readings", func(r chi.Router) {
				r.Get("/", s.handleListReadings)
				r.Post("/", s.handleCreateReading)
			})

			r.Get("/audit", s.handleListAuditLogs)
		})
	})

	return r
}

// handleHealth reports the server version and the state of each backing
// component. Only a failed database makes the service unhealthy; the event
// bus and the time-series store are reported as degraded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"database": probe(r.Context(), s.db),
	}
	if s.mqtt != nil {
		components["mqtt"] = probe(r.Context(), s.mqtt)
	}
	if s.influx != nil {
		components["influxdb"] = probe(r.Context(), s.influx)
	}

	status, code := "ok", http.StatusOK
	for name, state := range components {
		if state == "ok" {
			continue
		}
		if name == "database" {
			status, code = "unavailable", http.StatusServiceUnavailable
			break
		}
		status = "degraded"
	}

	writeJSON(w, code, map[string]any{
		"status":     status,
		"version":    s.version,
		"components": components,
	})
}

func probe(ctx context.Context, hc HealthChecker) string {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := hc.HealthCheck(ctx); err != nil {
		return "error"
	}
	return "ok"
}
