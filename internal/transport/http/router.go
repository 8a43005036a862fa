// Package httptransport assembles the service's HTTP surface: the checklist
// API behind JWT auth, plus unauthenticated health and metrics endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fieldaudit/internal/checklist/handler"
	"fieldaudit/internal/platform/middleware"
	"fieldaudit/pkg/platform/httputil"
)

// HealthChecker reports one dependency's health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Checklist *handler.Handler
	Auth      middleware.JWTValidator
	Logger    *slog.Logger
	// Registry backs GET /metrics; nil uses the default registry.
	Registry *prometheus.Registry
	// Health dependencies by name; all must pass for a 200 on /healthz.
	Health map[string]HealthChecker
}

// NewRouter wires middleware and endpoints. The checklist API requires a
// bearer token; health and metrics stay open for probes and scrapers.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthHandler(deps.Health))
	r.Method(http.MethodGet, "/metrics", metricsHandler(deps.Registry))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Auth, deps.Logger))
		deps.Checklist.Register(r)
	})

	return r
}

func metricsHandler(registry *prometheus.Registry) http.Handler {
	if registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
