// Package handler wires the forecast endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"revloop/internal/forecast"
	"revloop/internal/loop"
	"revloop/pkg/platform/httputil"
)

// LoopReader is the read-only slice of the loop service forecasts need.
type LoopReader interface {
	Status(ctx context.Context) *loop.Summary
	Analyze(ctx context.Context) (*loop.Analysis, error)
}

// Handler wires forecast endpoints to the loop's read surface.
type Handler struct {
	loop   LoopReader
	logger *slog.Logger
}

// New constructs a forecast handler.
func New(lr LoopReader, logger *slog.Logger) *Handler {
	return &Handler{loop: lr, logger: logger}
}

// Register mounts forecast endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/forecast/revenue", h.HandleRevenue)
	r.Get("/forecast/risk-map", h.HandleRiskMap)
}

// HandleRevenue handles POST /forecast/revenue requests.
func (h *Handler) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	input, ok := httputil.Decode[forecast.RevenueInput](w, r, h.logger)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, forecast.Revenue(h.loop.Status(ctx), input))
}

// HandleRiskMap handles GET /forecast/risk-map requests.
func (h *Handler) HandleRiskMap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	analysis, err := h.loop.Analyze(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	summary := h.loop.Status(ctx)
	httputil.WriteJSON(w, http.StatusOK, forecast.Risk(analysis, summary.AppliedPatches))
}
