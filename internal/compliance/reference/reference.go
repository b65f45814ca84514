// Package reference serves the read-only lookup tables: product categories,
// product types and notified bodies. The tables change out of band, so reads
// are cached and there is no mutation surface.
package reference

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/cache"
)

const cacheDomain = "reference"

// Item is one lookup row.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NotifiedBody is a certification body entitled to assess products.
type NotifiedBody struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Number  string `json:"number"`
	Country string `json:"country"`
}

// Repository reads the lookup tables.
type Repository interface {
	Items(ctx context.Context, table string) ([]Item, error)
	NotifiedBodies(ctx context.Context) ([]NotifiedBody, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Items(ctx context.Context, table string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) NotifiedBodies(ctx context.Context) ([]NotifiedBody, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, number, country FROM notified_bodies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bodies := []NotifiedBody{}
	for rows.Next() {
		var b NotifiedBody
		if err := rows.Scan(&b.ID, &b.Name, &b.Number, &b.Country); err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, rows.Err()
}

// Service caches the lookup lists.
type Service struct {
	repo  Repository
	store *cache.Store
}

// NewService constructs a Service.
func NewService(repo Repository, store *cache.Store) *Service {
	return &Service{repo: repo, store: store}
}

// ProductCategories returns every product category.
func (s *Service) ProductCategories(ctx context.Context) ([]Item, error) {
	return s.items(ctx, "product_categories")
}

// ProductTypes returns every product type.
func (s *Service) ProductTypes(ctx context.Context) ([]Item, error) {
	return s.items(ctx, "product_types")
}

// NotifiedBodies returns every notified body.
func (s *Service) NotifiedBodies(ctx context.Context) ([]NotifiedBody, error) {
	key := cache.Key{Domain: cacheDomain, Entity: "notified_bodies", Suffix: "all"}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) ([]NotifiedBody, error) {
		return s.repo.NotifiedBodies(ctx)
	})
}

func (s *Service) items(ctx context.Context, table string) ([]Item, error) {
	key := cache.Key{Domain: cacheDomain, Entity: table, Suffix: "all"}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) ([]Item, error) {
		return s.repo.Items(ctx, table)
	})
}
