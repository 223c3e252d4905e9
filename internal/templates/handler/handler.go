// Package handler wires the email template endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"revloop/internal/templates"
	"revloop/pkg/platform/httputil"
)

// Catalog defines the template operations the handler needs.
type Catalog interface {
	Get(key string) (*templates.Template, error)
	List() []templates.Template
}

// Handler wires template endpoints to the catalog.
type Handler struct {
	catalog Catalog
	logger  *slog.Logger
}

// New constructs a templates handler.
func New(catalog Catalog, logger *slog.Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Register mounts template endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/templates/email", h.HandleList)
	r.Get("/templates/email/{key}", h.HandleGet)
}

// HandleList handles GET /templates/email requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list := h.catalog.List()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"templates": list,
		"count":     len(list),
	})
}

// HandleGet handles GET /templates/email/{key} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.catalog.Get(chi.URLParam(r, "key"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tpl)
}
