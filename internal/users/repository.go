package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/shared"
)

// Repository loads and updates profile rows.
type Repository interface {
	Get(ctx context.Context, id int64) (Profile, error)
	UpdateMetadata(ctx context.Context, id int64, firstName, lastName, company string, planID *int64) (Profile, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const profileColumns = `id, email, first_name, last_name, company, plan_id, subscription_status, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) UpdateMetadata(ctx context.Context, id int64, firstName, lastName, company string, planID *int64) (Profile, error) {
	query := `UPDATE users SET first_name = $1, last_name = $2, company = $3, plan_id = $4, updated_at = now()
		WHERE id = $5 RETURNING ` + profileColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, firstName, lastName, company, planID, id))
}

func (r *repository) scanOne(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Company, &p.PlanID, &p.SubscriptionStatus, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, shared.ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}
