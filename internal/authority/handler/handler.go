// Package handler wires the authority check endpoint.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"revloop/internal/authority"
	dErrors "revloop/pkg/domain-errors"
	"revloop/pkg/platform/httputil"
)

// CheckRequest asks whether approver may approve subject's action.
type CheckRequest struct {
	Approver string `json:"approver"`
	Subject  string `json:"subject"`
}

func (r CheckRequest) Validate() error {
	if strings.TrimSpace(r.Approver) == "" || strings.TrimSpace(r.Subject) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "approver and subject are required")
	}
	return nil
}

// Handler wires the authority endpoints.
type Handler struct {
	logger *slog.Logger
}

// New constructs an authority handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts authority endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/authority/check", h.HandleCheck)
	r.Get("/authority/roles", h.HandleRoles)
}

// HandleCheck handles POST /authority/check requests.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[CheckRequest](w, r, h.logger)
	if !ok {
		return
	}
	decision, err := authority.CanApprove(req.Approver, req.Subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decision)
}

// HandleRoles handles GET /authority/roles requests.
func (h *Handler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"roles": authority.Roles()})
}
