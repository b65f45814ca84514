package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/shared"
)

// Repository performs the single point lookup of an authorization record.
type Repository interface {
	FindRecord(ctx context.Context, userID int64) (*AuthorizationRecord, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) FindRecord(ctx context.Context, userID int64) (*AuthorizationRecord, error) {
	const query = `SELECT user_id, role FROM admin_users WHERE user_id = $1`
	var (
		rec  AuthorizationRecord
		role string
	)
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&rec.UserID, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	rec.Role = ParseRole(role)
	return &rec, nil
}
