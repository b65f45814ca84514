package catalog

import (
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

// Handler exposes catalogue routes. Reads are available to any signed-in
// user; create/update require admin and delete requires superadmin.
type Handler struct {
	logger    *slog.Logger
	set       Set
	gate      authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, set Set, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, set: set, gate: gate, validator: validator.New()}
}

// MountRoutes registers one route tree per catalogue entity.
func (h *Handler) MountRoutes(r chi.Router) {
	for _, svc := range h.set.All() {
		svc := svc
		r.Route("/"+svc.Entity(), func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.gate.RequireUser)
				r.Get("/", h.list(svc))
				r.Get("/{id}", h.get(svc))
			})
			r.Group(func(r chi.Router) {
				r.Use(h.gate.RequireAdmin)
				r.Post("/", h.create(svc))
				r.Put("/{id}", h.update(svc))
			})
			r.Group(func(r chi.Router) {
				r.Use(h.gate.RequireSuperadmin)
				r.Delete("/{id}", h.delete(svc))
			})
		})
	}
}

func (h *Handler) list(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := listing.FromRequest(r)
		result, err := svc.List(r.Context(), q)
		if err != nil {
			h.logger.Error("list catalogue", slog.String("entity", svc.Entity()), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, result)
	}
}

func (h *Handler) get(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
			return
		}
		entry, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, entry)
	}
}

func (h *Handler) create(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := h.decodeForm(w, r)
		if !ok {
			return
		}
		actor := identity.PrincipalFromContext(r.Context())
		entry, err := svc.Create(r.Context(), actor.ID, form)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, entry)
	}
}

func (h *Handler) update(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
			return
		}
		form, ok := h.decodeForm(w, r)
		if !ok {
			return
		}
		actor := identity.PrincipalFromContext(r.Context())
		entry, err := svc.Update(r.Context(), actor.ID, id, form)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, entry)
	}
}

func (h *Handler) delete(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
			return
		}
		actor := identity.PrincipalFromContext(r.Context())
		if err := svc.Delete(r.Context(), actor.ID, id); err != nil {
			httpx.RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (EntryForm, bool) {
	var form EntryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return EntryForm{}, false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return EntryForm{}, false
	}
	return form, true
}
