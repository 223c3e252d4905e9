// Package handler wires the report endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"revloop/internal/reports"
	"revloop/pkg/platform/httputil"
)

// Service defines the report operations the handler needs.
type Service interface {
	StressTest(ctx context.Context) (*reports.StressTestReport, error)
	DailyBrief(ctx context.Context) (*reports.DailyBrief, error)
}

// Handler wires report endpoints to the reports service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a reports handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/stress-test", h.HandleStressTest)
	r.Get("/reports/daily-brief", h.HandleDailyBrief)
}

// HandleStressTest handles GET /reports/stress-test requests.
func (h *Handler) HandleStressTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.service.StressTest(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "stress test build failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleDailyBrief handles GET /reports/daily-brief requests.
func (h *Handler) HandleDailyBrief(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	brief, err := h.service.DailyBrief(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "daily brief build failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, brief)
}
