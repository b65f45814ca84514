package manufacturers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

// Descriptor describes the manufacturers table for the list contract.
// Manufacturers are owner-scoped and hard-deleted.
func Descriptor() listing.Descriptor {
	return listing.Descriptor{
		Table:        "manufacturers",
		Columns:      []string{"id", "user_id", "name", "email", "phone", "address", "country", "created_at", "updated_at"},
		SearchFields: []string{"name", "email", "country"},
		SortFields: map[string]string{
			"name":       "name",
			"country":    "country",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		OwnerColumn: "user_id",
	}
}

// Repository persists manufacturer rows.
type Repository interface {
	List(ctx context.Context, ownerID int64, q listing.Query) ([]Manufacturer, int, error)
	Get(ctx context.Context, ownerID, id int64) (Manufacturer, error)
	Create(ctx context.Context, ownerID int64, form Form) (Manufacturer, error)
	Update(ctx context.Context, ownerID, id int64, form Form) (Manufacturer, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
	desc listing.Descriptor
}

// NewRepository constructs a postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool, desc: Descriptor()}
}

func (r *repository) List(ctx context.Context, ownerID int64, q listing.Query) ([]Manufacturer, int, error) {
	countSQL, countArgs := listing.BuildCount(r.desc, q, ownerID)
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectSQL, args := listing.BuildSelect(r.desc, q, ownerID)
	rows, err := r.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Manufacturer
	for rows.Next() {
		var m Manufacturer
		if err := scanManufacturer(rows, &m); err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, ownerID, id int64) (Manufacturer, error) {
	const query = `SELECT id, user_id, name, email, phone, address, country, created_at, updated_at
		FROM manufacturers WHERE id = $1 AND user_id = $2`
	var m Manufacturer
	if err := scanManufacturer(r.pool.QueryRow(ctx, query, id, ownerID), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Manufacturer{}, shared.ErrNotFound
		}
		return Manufacturer{}, err
	}
	return m, nil
}

func (r *repository) Create(ctx context.Context, ownerID int64, form Form) (Manufacturer, error) {
	const query = `INSERT INTO manufacturers (user_id, name, email, phone, address, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, user_id, name, email, phone, address, country, created_at, updated_at`
	var m Manufacturer
	err := scanManufacturer(r.pool.QueryRow(ctx, query, ownerID, form.Name, form.Email, form.Phone, form.Address, form.Country), &m)
	if err != nil {
		return Manufacturer{}, err
	}
	return m, nil
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, form Form) (Manufacturer, error) {
	const query = `UPDATE manufacturers SET name = $1, email = $2, phone = $3, address = $4, country = $5, updated_at = now()
		WHERE id = $6 AND user_id = $7
		RETURNING id, user_id, name, email, phone, address, country, created_at, updated_at`
	var m Manufacturer
	err := scanManufacturer(r.pool.QueryRow(ctx, query, form.Name, form.Email, form.Phone, form.Address, form.Country, id, ownerID), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Manufacturer{}, shared.ErrNotFound
		}
		return Manufacturer{}, err
	}
	return m, nil
}

// Delete removes the row permanently; manufacturers are customer-owned data
// and are not retained after deletion.
func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanManufacturer(row pgx.Row, m *Manufacturer) error {
	return row.Scan(&m.ID, &m.UserID, &m.Name, &m.Email, &m.Phone, &m.Address, &m.Country, &m.CreatedAt, &m.UpdatedAt)
}
