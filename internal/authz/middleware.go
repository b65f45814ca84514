package authz

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/complyhub/complyhub/internal/identity"
	"github.com/complyhub/complyhub/internal/platform/httpx"
)

// SignInPath is where denied browser navigations are redirected.
const SignInPath = "/auth/login"

// Middleware is the admin gate: it composes the identity accessor and the
// role resolver per request, so an allowance never outlives a principal
// change. Every path resolves terminally: accessor or resolver failure
// denies, it never leaves a request hanging.
type Middleware struct {
	Accessor identity.Accessor
	Resolver *Resolver
	Logger   *slog.Logger
}

// RequireUser admits any authenticated principal and stores it in context.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.Accessor.Current(r.Context())
		if err != nil || principal == nil {
			m.deny(w, r, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.ContextWithPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin admits admin and superadmin principals.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.requireRole(next, Role.IsAdmin)
}

// RequireSuperadmin admits superadmin principals only; admin is not
// sufficient.
func (m Middleware) RequireSuperadmin(next http.Handler) http.Handler {
	return m.requireRole(next, Role.IsSuperadmin)
}

func (m Middleware) requireRole(next http.Handler, allowed func(Role) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.Accessor.Current(r.Context())
		if err != nil || principal == nil {
			m.deny(w, r, http.StatusUnauthorized)
			return
		}
		role := m.Resolver.Resolve(r.Context(), principal.ID)
		if !allowed(role) {
			if m.Logger != nil {
				m.Logger.Info("admin gate denied",
					slog.Int64("user_id", principal.ID),
					slog.String("role", role.String()),
					slog.String("path", r.URL.Path))
			}
			m.deny(w, r, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.ContextWithPrincipal(r.Context(), principal)))
	})
}

// deny redirects browser navigations to the sign-in page and answers API
// clients with a problem document. Partial protected content is never
// rendered.
func (m Middleware) deny(w http.ResponseWriter, r *http.Request, status int) {
	if acceptsHTML(r) {
		http.Redirect(w, r, SignInPath, http.StatusSeeOther)
		return
	}
	switch status {
	case http.StatusForbidden:
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
	default:
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	}
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
