package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/platform/db"
	"github.com/complyhub/complyhub/internal/shared"
)

// Descriptor describes the products table for the list contract.
func Descriptor() listing.Descriptor {
	return listing.Descriptor{
		Table:        "products",
		Columns:      []string{"id", "user_id", "name", "model_number", "description", "manufacturer_id", "category_id", "type_id", "notified_body_id", "created_at", "updated_at"},
		SearchFields: []string{"name", "model_number", "description"},
		SortFields: map[string]string{
			"name":       "name",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		OwnerColumn: "user_id",
	}
}

// linkTables maps each link table to its catalogue column. Rows are replaced
// wholesale on every write, inside the same transaction as the product row.
var linkTables = map[string]string{
	"product_directives":  "directive_id",
	"product_regulations": "regulation_id",
	"product_standards":   "standard_id",
}

// Repository persists product rows and their catalogue links.
type Repository interface {
	List(ctx context.Context, ownerID int64, q listing.Query) ([]Product, int, error)
	Get(ctx context.Context, ownerID, id int64) (Product, error)
	Create(ctx context.Context, ownerID int64, form Form) (Product, error)
	Update(ctx context.Context, ownerID, id int64, form Form) (Product, error)
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

func (r *repository) List(ctx context.Context, ownerID int64, q listing.Query) ([]Product, int, error) {
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

	var items []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// List responses omit catalogue links; they are loaded on Get only.
	return items, total, nil
}

func (r *repository) Get(ctx context.Context, ownerID, id int64) (Product, error) {
	const query = `SELECT id, user_id, name, model_number, description, manufacturer_id, category_id, type_id, notified_body_id, created_at, updated_at
		FROM products WHERE id = $1 AND user_id = $2`
	var p Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id, ownerID), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}

	p.DirectiveIDs = []int64{}
	p.RegulationIDs = []int64{}
	p.StandardIDs = []int64{}
	for table, column := range linkTables {
		ids, err := r.linkedIDs(ctx, table, column, id)
		if err != nil {
			return Product{}, err
		}
		switch table {
		case "product_directives":
			p.DirectiveIDs = ids
		case "product_regulations":
			p.RegulationIDs = ids
		case "product_standards":
			p.StandardIDs = ids
		}
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, ownerID int64, form Form) (Product, error) {
	var p Product
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `INSERT INTO products (user_id, name, model_number, description, manufacturer_id, category_id, type_id, notified_body_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			RETURNING id, user_id, name, model_number, description, manufacturer_id, category_id, type_id, notified_body_id, created_at, updated_at`
		row := tx.QueryRow(ctx, query, ownerID, form.Name, form.ModelNumber, form.Description,
			form.ManufacturerID, form.CategoryID, form.TypeID, form.NotifiedBodyID)
		if err := scanProduct(row, &p); err != nil {
			return err
		}
		return r.writeLinks(ctx, tx, p.ID, form)
	})
	if err != nil {
		return Product{}, err
	}
	p.DirectiveIDs = normalizeIDs(form.DirectiveIDs)
	p.RegulationIDs = normalizeIDs(form.RegulationIDs)
	p.StandardIDs = normalizeIDs(form.StandardIDs)
	return p, nil
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, form Form) (Product, error) {
	var p Product
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `UPDATE products SET name = $1, model_number = $2, description = $3, manufacturer_id = $4, category_id = $5, type_id = $6, notified_body_id = $7, updated_at = now()
			WHERE id = $8 AND user_id = $9
			RETURNING id, user_id, name, model_number, description, manufacturer_id, category_id, type_id, notified_body_id, created_at, updated_at`
		row := tx.QueryRow(ctx, query, form.Name, form.ModelNumber, form.Description,
			form.ManufacturerID, form.CategoryID, form.TypeID, form.NotifiedBodyID, id, ownerID)
		if err := scanProduct(row, &p); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		return r.writeLinks(ctx, tx, id, form)
	})
	if err != nil {
		return Product{}, err
	}
	p.DirectiveIDs = normalizeIDs(form.DirectiveIDs)
	p.RegulationIDs = normalizeIDs(form.RegulationIDs)
	p.StandardIDs = normalizeIDs(form.StandardIDs)
	return p, nil
}

// Delete removes the product and its link rows. Link tables cascade on the
// product foreign key, so one delete suffices.
func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// writeLinks replaces the product's link rows with the form's id sets.
func (r *repository) writeLinks(ctx context.Context, tx pgx.Tx, productID int64, form Form) error {
	sets := map[string][]int64{
		"product_directives":  form.DirectiveIDs,
		"product_regulations": form.RegulationIDs,
		"product_standards":   form.StandardIDs,
	}
	for table, column := range linkTables {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE product_id = $1`, productID); err != nil {
			return err
		}
		for _, linked := range sets[table] {
			if _, err := tx.Exec(ctx,
				`INSERT INTO `+table+` (product_id, `+column+`) VALUES ($1, $2)`,
				productID, linked); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *repository) linkedIDs(ctx context.Context, table, column string, productID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+column+` FROM `+table+` WHERE product_id = $1 ORDER BY `+column, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func normalizeIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.UserID, &p.Name, &p.ModelNumber, &p.Description,
		&p.ManufacturerID, &p.CategoryID, &p.TypeID, &p.NotifiedBodyID, &p.CreatedAt, &p.UpdatedAt)
}
