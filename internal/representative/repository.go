package representative

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

// RequestsDescriptor describes representative_requests for the list
// contract. The admin queue lists across owners, so OwnerColumn scoping is
// applied only when a non-zero owner id is passed to the builder.
func RequestsDescriptor() listing.Descriptor {
	return listing.Descriptor{
		Table:        "representative_requests",
		Columns:      []string{"id", "user_id", "region", "company", "message", "status", "created_at", "updated_at"},
		SearchFields: []string{"company", "message"},
		SortFields: map[string]string{
			"status":     "status",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		OwnerColumn: "user_id",
	}
}

// Repository persists requests and addresses.
type Repository interface {
	ListRequests(ctx context.Context, ownerID int64, q listing.Query) ([]Request, int, error)
	GetRequest(ctx context.Context, id int64) (Request, error)
	CreateRequest(ctx context.Context, ownerID int64, form RequestForm) (Request, error)
	SetRequestStatus(ctx context.Context, id int64, status string) (Request, error)
	ListAddresses(ctx context.Context, ownerID int64) ([]Address, error)
	CreateAddress(ctx context.Context, a Address) (Address, error)
	DeleteAddress(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
	desc listing.Descriptor
}

// NewRepository constructs a postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool, desc: RequestsDescriptor()}
}

func (r *repository) ListRequests(ctx context.Context, ownerID int64, q listing.Query) ([]Request, int, error) {
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

	var items []Request
	for rows.Next() {
		var req Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, 0, err
		}
		items = append(items, req)
	}
	return items, total, rows.Err()
}

func (r *repository) GetRequest(ctx context.Context, id int64) (Request, error) {
	const query = `SELECT id, user_id, region, company, message, status, created_at, updated_at
		FROM representative_requests WHERE id = $1`
	var req Request
	if err := scanRequest(r.pool.QueryRow(ctx, query, id), &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, shared.ErrNotFound
		}
		return Request{}, err
	}
	return req, nil
}

func (r *repository) CreateRequest(ctx context.Context, ownerID int64, form RequestForm) (Request, error) {
	const query = `INSERT INTO representative_requests (user_id, region, company, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, user_id, region, company, message, status, created_at, updated_at`
	var req Request
	err := scanRequest(r.pool.QueryRow(ctx, query, ownerID, form.Region, form.Company, form.Message, StatusPending), &req)
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (r *repository) SetRequestStatus(ctx context.Context, id int64, status string) (Request, error) {
	const query = `UPDATE representative_requests SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, user_id, region, company, message, status, created_at, updated_at`
	var req Request
	if err := scanRequest(r.pool.QueryRow(ctx, query, status, id), &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, shared.ErrNotFound
		}
		return Request{}, err
	}
	return req, nil
}

func (r *repository) ListAddresses(ctx context.Context, ownerID int64) ([]Address, error) {
	const query = `SELECT id, user_id, region, company_name, address_line, city, postal_code, country, created_at
		FROM representative_addresses WHERE user_id = $1 ORDER BY region`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addrs := []Address{}
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Region, &a.CompanyName, &a.AddressLine, &a.City, &a.PostalCode, &a.Country, &a.CreatedAt); err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}

func (r *repository) CreateAddress(ctx context.Context, a Address) (Address, error) {
	const query = `INSERT INTO representative_addresses (user_id, region, company_name, address_line, city, postal_code, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, a.UserID, a.Region, a.CompanyName, a.AddressLine, a.City, a.PostalCode, a.Country).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *repository) DeleteAddress(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM representative_addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanRequest(row pgx.Row, req *Request) error {
	return row.Scan(&req.ID, &req.UserID, &req.Region, &req.Company, &req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt)
}
