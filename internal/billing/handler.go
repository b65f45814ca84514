package billing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/identity"
	"github.com/complyhub/complyhub/internal/platform/httpx"
)

// Handler exposes /billing.
type Handler struct {
	logger    *slog.Logger
	svc       *Service
	gate      authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, svc *Service, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, svc: svc, gate: gate, validator: validator.New()}
}

type checkoutForm struct {
	PackageID int64 `json:"package_id" validate:"required,gt=0"`
}

// MountRoutes registers the billing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/billing", func(r chi.Router) {
		r.Use(h.gate.RequireUser)
		r.Get("/packages", h.packages)
		r.Post("/checkout", h.checkout)
		r.Post("/portal", h.portal)
	})
}

func (h *Handler) packages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.svc.Packages(r.Context())
	if err != nil {
		h.logger.Error("list packages", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pkgs)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var form checkoutForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor := identity.PrincipalFromContext(r.Context())
	session, err := h.svc.Checkout(r.Context(), *actor, form.PackageID)
	if err != nil {
		h.logger.Error("create checkout session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, session)
}

func (h *Handler) portal(w http.ResponseWriter, r *http.Request) {
	actor := identity.PrincipalFromContext(r.Context())
	session, err := h.svc.Portal(r.Context(), *actor)
	if err != nil {
		h.logger.Error("create portal session", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, session)
}
