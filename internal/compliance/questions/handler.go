package questions

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

// Handler exposes /question-answers for the signed-in user.
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

// MountRoutes registers the question-answer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/question-answers", func(r chi.Router) {
		r.Use(h.gate.RequireUser)
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := identity.PrincipalFromContext(r.Context())
	q := listing.FromRequest(r, "product_id")
	result, err := h.svc.List(r.Context(), actor.ID, q)
	if err != nil {
		h.logger.Error("list question answers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	actor := identity.PrincipalFromContext(r.Context())
	a, err := h.svc.Create(r.Context(), actor.ID, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
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
	a, err := h.svc.Update(r.Context(), actor.ID, id, form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	actor := identity.PrincipalFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), actor.ID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (Form, bool) {
	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return Form{}, false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return Form{}, false
	}
	return form, true
}
