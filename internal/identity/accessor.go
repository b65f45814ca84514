package identity

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/shared"
)

// Accessor obtains the current authenticated principal. A nil principal with
// ErrUnauthenticated means no session; any other error is a transport
// failure and callers must treat it as unauthenticated for gating purposes.
type Accessor interface {
	Current(ctx context.Context) (*Principal, error)
}

// Repository loads principal rows.
type Repository interface {
	FindPrincipal(ctx context.Context, id int64) (*Principal, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the postgres-backed principal repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FindPrincipal(ctx context.Context, id int64) (*Principal, error) {
	const query = `SELECT id, email, first_name, last_name, company, plan_id, subscription_status
		FROM users WHERE id = $1 AND is_active`
	var p Principal
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Company, &p.PlanID, &p.SubscriptionStatus,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, err
	}
	return &p, nil
}

type sessionAccessor struct {
	repo Repository
}

// NewSessionAccessor resolves the principal from the request session. The
// session carries only the user id; the profile row is looked up on every
// call so a deactivated or deleted account stops resolving immediately.
func NewSessionAccessor(repo Repository) Accessor {
	return &sessionAccessor{repo: repo}
}

func (a *sessionAccessor) Current(ctx context.Context) (*Principal, error) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil || sess.User() == "" {
		return nil, shared.ErrUnauthenticated
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	return a.repo.FindPrincipal(ctx, id)
}
