package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/complyhub/complyhub/internal/assist"
	"github.com/complyhub/complyhub/internal/auth"
	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/billing"
	"github.com/complyhub/complyhub/internal/catalog"
	"github.com/complyhub/complyhub/internal/compliance/manufacturers"
	"github.com/complyhub/complyhub/internal/compliance/products"
	"github.com/complyhub/complyhub/internal/compliance/questions"
	"github.com/complyhub/complyhub/internal/compliance/reference"
	"github.com/complyhub/complyhub/internal/compliance/techfiles"
	"github.com/complyhub/complyhub/internal/observability"
	"github.com/complyhub/complyhub/internal/representative"
	"github.com/complyhub/complyhub/internal/shared"
	"github.com/complyhub/complyhub/internal/users"
	"github.com/complyhub/complyhub/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Gate           authz.Middleware

	AuthHandler           *auth.Handler
	UsersHandler          *users.Handler
	CatalogHandler        *catalog.Handler
	ManufacturersHandler  *manufacturers.Handler
	ProductsHandler       *products.Handler
	QuestionsHandler      *questions.Handler
	TechFilesHandler      *techfiles.Handler
	ReferenceHandler      *reference.Handler
	RepresentativeHandler *representative.Handler
	BillingHandler        *billing.Handler
	AssistHandler         *assist.Handler
	JobHandler            *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			r.Use(params.Gate.RequireUser)
			params.UsersHandler.MountRoutes(r)
		})
	}
	if params.CatalogHandler != nil {
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
	}
	if params.ManufacturersHandler != nil {
		params.ManufacturersHandler.MountRoutes(r)
	}
	if params.ProductsHandler != nil {
		params.ProductsHandler.MountRoutes(r)
	}
	if params.QuestionsHandler != nil {
		params.QuestionsHandler.MountRoutes(r)
	}
	if params.TechFilesHandler != nil {
		params.TechFilesHandler.MountRoutes(r)
	}
	if params.ReferenceHandler != nil {
		params.ReferenceHandler.MountRoutes(r)
	}
	if params.RepresentativeHandler != nil {
		params.RepresentativeHandler.MountRoutes(r)
	}
	if params.BillingHandler != nil {
		params.BillingHandler.MountRoutes(r)
	}
	if params.AssistHandler != nil {
		params.AssistHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
