package reference

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/platform/httpx"
)

// Handler exposes the lookup lists to signed-in users.
type Handler struct {
	logger *slog.Logger
	svc    *Service
	gate   authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, svc *Service, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, svc: svc, gate: gate}
}

// MountRoutes registers the reference routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reference", func(r chi.Router) {
		r.Use(h.gate.RequireUser)
		r.Get("/product-categories", h.categories)
		r.Get("/product-types", h.types)
		r.Get("/notified-bodies", h.notifiedBodies)
	})
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ProductCategories(r.Context())
	if err != nil {
		h.logger.Error("list product categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) types(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ProductTypes(r.Context())
	if err != nil {
		h.logger.Error("list product types", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) notifiedBodies(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.NotifiedBodies(r.Context())
	if err != nil {
		h.logger.Error("list notified bodies", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}
