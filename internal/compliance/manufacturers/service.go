package manufacturers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

const (
	cacheDomain = "compliance"
	cacheEntity = "manufacturers"
)

// Service exposes owner-scoped manufacturer operations with cached reads.
type Service struct {
	repo  Repository
	store *cache.Store
	audit *shared.AuditLogger
}

// NewService constructs a Service.
func NewService(repo Repository, store *cache.Store, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, store: store, audit: audit}
}

// List returns one page of the owner's manufacturers. The owner id is part of
// the cache key so users never observe each other's rows.
func (s *Service) List(ctx context.Context, ownerID int64, q listing.Query) (listing.Result[Manufacturer], error) {
	key := cache.Key{Domain: cacheDomain, Entity: cacheEntity, Suffix: ownerSuffix(ownerID, q.Key())}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) (listing.Result[Manufacturer], error) {
		items, total, err := s.repo.List(ctx, ownerID, q)
		if err != nil {
			return listing.Result[Manufacturer]{}, err
		}
		return listing.NewResult(items, total, q), nil
	})
}

// Get returns one of the owner's manufacturers.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (Manufacturer, error) {
	if id <= 0 {
		return Manufacturer{}, shared.ErrNotFound
	}
	key := cache.Key{Domain: cacheDomain, Entity: cacheEntity, Suffix: ownerSuffix(ownerID, "id="+strconv.FormatInt(id, 10))}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) (Manufacturer, error) {
		return s.repo.Get(ctx, ownerID, id)
	})
}

// Create inserts a manufacturer for the owner and invalidates on success.
func (s *Service) Create(ctx context.Context, ownerID int64, form Form) (Manufacturer, error) {
	if err := validateForm(form); err != nil {
		return Manufacturer{}, err
	}
	m, err := s.repo.Create(ctx, ownerID, form)
	if err != nil {
		return Manufacturer{}, err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	s.audit.Record(ctx, ownerID, cacheEntity, m.ID, "create")
	return m, nil
}

// Update rewrites one of the owner's manufacturers.
func (s *Service) Update(ctx context.Context, ownerID, id int64, form Form) (Manufacturer, error) {
	if id <= 0 {
		return Manufacturer{}, shared.ErrNotFound
	}
	if err := validateForm(form); err != nil {
		return Manufacturer{}, err
	}
	m, err := s.repo.Update(ctx, ownerID, id, form)
	if err != nil {
		return Manufacturer{}, err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	s.audit.Record(ctx, ownerID, cacheEntity, id, "update")
	return m, nil
}

// Delete permanently removes one of the owner's manufacturers.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	s.audit.Record(ctx, ownerID, cacheEntity, id, "delete")
	return nil
}

func ownerSuffix(ownerID int64, rest string) string {
	return "owner=" + strconv.FormatInt(ownerID, 10) + "&" + rest
}

func validateForm(form Form) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	return nil
}
