package assist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/platform/httpx"
)

// Handler exposes /assist.
type Handler struct {
	logger *slog.Logger
	svc    *Service
	gate   authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, svc *Service, gate authz.Middleware) *Handler {
	return &Handler{logger: logger, svc: svc, gate: gate}
}

type completeForm struct {
	Prompt string `json:"prompt"`
}

type completeResponse struct {
	Completion string `json:"completion"`
}

// MountRoutes registers the assist routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/assist", func(r chi.Router) {
		r.Use(h.gate.RequireUser)
		r.Post("/complete", h.complete)
	})
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	var form completeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	completion, err := h.svc.Complete(r.Context(), form.Prompt)
	if err != nil {
		h.logger.Warn("assist completion", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, completeResponse{Completion: completion})
}
