// Package techfiles tracks technical-file documents attached to products.
// The service stores metadata only; the document body lives in external
// object storage addressed by a generated storage key.
package techfiles

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

const (
	cacheDomain = "compliance"
	cacheEntity = "technical_files"
)

// File is one technical-file record.
type File struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProductID   int64     `json:"product_id"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Form registers an uploaded document.
type Form struct {
	ProductID   int64  `json:"product_id" validate:"required,gt=0"`
	FileName    string `json:"file_name" validate:"required,max=300"`
	ContentType string `json:"content_type" validate:"required,max=150"`
	SizeBytes   int64  `json:"size_bytes" validate:"gte=0"`
}

// Descriptor describes the technical_files table for the list contract.
func Descriptor() listing.Descriptor {
	return listing.Descriptor{
		Table:        "technical_files",
		Columns:      []string{"id", "user_id", "product_id", "file_name", "storage_key", "content_type", "size_bytes", "created_at"},
		SearchFields: []string{"file_name"},
		SortFields: map[string]string{
			"file_name":  "file_name",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		OwnerColumn: "user_id",
	}
}

// Repository persists file records.
type Repository interface {
	List(ctx context.Context, ownerID int64, q listing.Query) ([]File, int, error)
	Create(ctx context.Context, f File) (File, error)
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

func (r *repository) List(ctx context.Context, ownerID int64, q listing.Query) ([]File, int, error) {
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

	var items []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.UserID, &f.ProductID, &f.FileName, &f.StorageKey, &f.ContentType, &f.SizeBytes, &f.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	return items, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, f File) (File, error) {
	const query = `INSERT INTO technical_files (user_id, product_id, file_name, storage_key, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, f.UserID, f.ProductID, f.FileName, f.StorageKey, f.ContentType, f.SizeBytes).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return File{}, err
	}
	return f, nil
}

func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM technical_files WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Service exposes owner-scoped file operations.
type Service struct {
	repo  Repository
	store *cache.Store
}

// NewService constructs a Service.
func NewService(repo Repository, store *cache.Store) *Service {
	return &Service{repo: repo, store: store}
}

// List returns one page of the owner's files.
func (s *Service) List(ctx context.Context, ownerID int64, q listing.Query) (listing.Result[File], error) {
	suffix := "owner=" + strconv.FormatInt(ownerID, 10) + "&" + q.Key()
	key := cache.Key{Domain: cacheDomain, Entity: cacheEntity, Suffix: suffix}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) (listing.Result[File], error) {
		items, total, err := s.repo.List(ctx, ownerID, q)
		if err != nil {
			return listing.Result[File]{}, err
		}
		return listing.NewResult(items, total, q), nil
	})
}

// Register records an uploaded document. The storage key is minted here so
// callers can upload the body under it afterwards.
func (s *Service) Register(ctx context.Context, ownerID int64, form Form) (File, error) {
	if err := validateForm(form); err != nil {
		return File{}, err
	}
	f, err := s.repo.Create(ctx, File{
		UserID:      ownerID,
		ProductID:   form.ProductID,
		FileName:    form.FileName,
		StorageKey:  uuid.NewString(),
		ContentType: form.ContentType,
		SizeBytes:   form.SizeBytes,
	})
	if err != nil {
		return File{}, err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	return f, nil
}

// Delete removes a file record.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	return nil
}

func validateForm(form Form) error {
	if form.ProductID <= 0 {
		return fmt.Errorf("%w: product id is required", shared.ErrValidation)
	}
	if strings.TrimSpace(form.FileName) == "" {
		return fmt.Errorf("%w: file name is required", shared.ErrValidation)
	}
	return nil
}
