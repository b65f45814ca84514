package representative

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/identity"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/platform/httpx"
)

// Handler exposes /representative. Customers file and follow their own
// requests; the admin queue and decisions sit behind the admin gate.
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

type addressForm struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	Region      string `json:"region" validate:"required,oneof=eu uk"`
	CompanyName string `json:"company_name" validate:"required,max=300"`
	AddressLine string `json:"address_line" validate:"required,max=500"`
	City        string `json:"city" validate:"required,max=150"`
	PostalCode  string `json:"postal_code" validate:"required,max=20"`
	Country     string `json:"country" validate:"required,max=100"`
}

// MountRoutes registers the representative routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/representative", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.gate.RequireUser)
			r.Get("/requests", h.listMine)
			r.Post("/requests", h.submit)
			r.Get("/addresses", h.addresses)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.gate.RequireAdmin)
			r.Get("/admin/requests", h.listAll)
			r.Post("/admin/requests/{id}/approve", h.approve)
			r.Post("/admin/requests/{id}/reject", h.reject)
			r.Post("/admin/addresses", h.assignAddress)
			r.Delete("/admin/addresses/{id}", h.revokeAddress)
		})
	})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	actor := identity.PrincipalFromContext(r.Context())
	q := listing.FromRequest(r, "status")
	result, err := h.svc.ListMine(r.Context(), actor.ID, q)
	if err != nil {
		h.logger.Error("list representative requests", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var form RequestForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor := identity.PrincipalFromContext(r.Context())
	req, err := h.svc.Submit(r.Context(), actor.ID, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, req)
}

func (h *Handler) addresses(w http.ResponseWriter, r *http.Request) {
	actor := identity.PrincipalFromContext(r.Context())
	addrs, err := h.svc.Addresses(r.Context(), actor.ID)
	if err != nil {
		h.logger.Error("list representative addresses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, addrs)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	q := listing.FromRequest(r, "status")
	result, err := h.svc.ListAll(r.Context(), q)
	if err != nil {
		h.logger.Error("list all representative requests", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Approve)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) (Request, error)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	req, err := fn(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) assignAddress(w http.ResponseWriter, r *http.Request) {
	var form addressForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	addr, err := h.svc.AssignAddress(r.Context(), Address{
		UserID:      form.UserID,
		Region:      form.Region,
		CompanyName: form.CompanyName,
		AddressLine: form.AddressLine,
		City:        form.City,
		PostalCode:  form.PostalCode,
		Country:     form.Country,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, addr)
}

func (h *Handler) revokeAddress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	if err := h.svc.RevokeAddress(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
