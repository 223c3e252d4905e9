// Package httptransport composes the HTTP surface: the shared middleware
// chain, every feature handler, health and metrics endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"revloop/internal/platform/metrics"
	"revloop/internal/platform/middleware"
	"revloop/pkg/platform/httputil"
)

// RequestTimeout bounds every handler via the request context.
const RequestTimeout = 30 * time.Second

// Registrar is implemented by every feature handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports the readiness of one optional dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps collects everything the router composes.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Handlers []Registrar
	// Checks maps a dependency name to its health probe. Nil values are
	// reported as "disabled".
	Checks map[string]HealthChecker
}

// NewRouter builds the chi router with the full middleware chain and all
// feature routes mounted.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))
	r.Use(middleware.Timeout(RequestTimeout))
	r.Use(middleware.ContentTypeJSON)

	for _, h := range deps.Handlers {
		h.Register(r)
	}

	r.Get("/healthz", handleHealth(deps.Checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// handleHealth reports overall and per-dependency health. A failing optional
// dependency degrades the report but the endpoint still returns 200 as long
// as the process itself can serve; callers read the per-check detail.
func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		detail := make(map[string]string, len(checks))
		degraded := false
		for name, check := range checks {
			switch {
			case check == nil:
				detail[name] = "disabled"
			default:
				if err := check.Health(ctx); err != nil {
					detail[name] = "unhealthy: " + err.Error()
					degraded = true
				} else {
					detail[name] = "healthy"
				}
			}
		}

		status := "ok"
		if degraded {
			status = "degraded"
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status": status,
			"checks": detail,
		})
	}
}
