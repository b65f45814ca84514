package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

// uniqueViolation is the postgres error code for duplicate keys.
const uniqueViolation = "23505"

// Repository is the single catalogue repository; the descriptor decides
// which table it reads.
type Repository interface {
	List(ctx context.Context, q listing.Query) ([]Entry, int, error)
	Get(ctx context.Context, id int64) (Entry, error)
	Create(ctx context.Context, form EntryForm) (Entry, error)
	Update(ctx context.Context, id int64, form EntryForm) (Entry, error)
	SoftDelete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
	desc listing.Descriptor
}

// NewRepository constructs a Repository for one catalogue table.
func NewRepository(pool *pgxpool.Pool, desc listing.Descriptor) Repository {
	return &repository{pool: pool, desc: desc}
}

func (r *repository) List(ctx context.Context, q listing.Query) ([]Entry, int, error) {
	countSQL, countArgs := listing.BuildCount(r.desc, q, 0)
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectSQL, args := listing.BuildSelect(r.desc, q, 0)
	rows, err := r.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.ReferenceCode, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Entry, error) {
	query := `SELECT id, name, reference_code, description, created_at, updated_at FROM ` + r.desc.Table +
		` WHERE id = $1 AND deleted_at IS NULL`
	var e Entry
	err := r.pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.Name, &e.ReferenceCode, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, form EntryForm) (Entry, error) {
	query := `INSERT INTO ` + r.desc.Table + ` (name, reference_code, description, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, name, reference_code, description, created_at, updated_at`
	var e Entry
	err := r.pool.QueryRow(ctx, query, form.Name, form.ReferenceCode, form.Description).
		Scan(&e.ID, &e.Name, &e.ReferenceCode, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Entry{}, fmt.Errorf("%w: reference code already exists", shared.ErrValidation)
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *repository) Update(ctx context.Context, id int64, form EntryForm) (Entry, error) {
	query := `UPDATE ` + r.desc.Table + ` SET name = $1, reference_code = $2, description = $3, updated_at = now()
		WHERE id = $4 AND deleted_at IS NULL
		RETURNING id, name, reference_code, description, created_at, updated_at`
	var e Entry
	err := r.pool.QueryRow(ctx, query, form.Name, form.ReferenceCode, form.Description, id).
		Scan(&e.ID, &e.Name, &e.ReferenceCode, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

// SoftDelete marks the row logically absent. The row is never physically
// removed: products keep referencing it for historical records.
func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE ` + r.desc.Table + ` SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
