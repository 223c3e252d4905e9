// Package handler wires the performance-ledger read endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"revloop/internal/ledger"
	ledgersvc "revloop/internal/ledger/service"
	dErrors "revloop/pkg/domain-errors"
	"revloop/pkg/platform/httputil"
)

// Service defines the ledger operations the handler needs.
type Service interface {
	List(ctx context.Context, input ledgersvc.ListInput) ([]ledger.Entry, error)
}

// Handler wires ledger endpoints to the ledger service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a ledger handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts ledger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/ledger/entries", h.HandleList)
}

// HandleList handles GET /ledger/entries requests. Query parameters: loop_id,
// category (repeatable), limit.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	input := ledgersvc.ListInput{
		LoopID:     query.Get("loop_id"),
		Categories: query["category"],
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
			return
		}
		input.Limit = limit
	}

	entries, err := h.service.List(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "ledger list failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}
