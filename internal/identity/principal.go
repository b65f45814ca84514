// Package identity resolves the authenticated principal for a request.
package identity

import "context"

// Principal is the authenticated identity making a request.
type Principal struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Company            string `json:"company"`
	PlanID             *int64 `json:"plan_id,omitempty"`
	SubscriptionStatus string `json:"subscription_status"`
}

type principalContextKey struct{}

// ContextWithPrincipal stores the resolved principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal, or nil when unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
