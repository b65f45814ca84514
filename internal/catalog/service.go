package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

// CacheDomain prefixes every catalogue cache key.
const CacheDomain = "catalog"

// Service wraps one catalogue entity: cached reads, audited mutations.
type Service struct {
	entity string
	repo   Repository
	store  *cache.Store
	audit  *shared.AuditLogger
}

// NewService constructs a Service for one entity name ("directives",
// "regulations", "standards").
func NewService(entity string, repo Repository, store *cache.Store, audit *shared.AuditLogger) *Service {
	return &Service{entity: entity, repo: repo, store: store, audit: audit}
}

// Entity returns the entity name the service manages.
func (s *Service) Entity() string {
	return s.entity
}

// List returns one page of entries, served from cache when the same query
// was answered since the last mutation.
func (s *Service) List(ctx context.Context, q listing.Query) (listing.Result[Entry], error) {
	key := cache.Key{Domain: CacheDomain, Entity: s.entity, Suffix: q.Key()}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) (listing.Result[Entry], error) {
		items, total, err := s.repo.List(ctx, q)
		if err != nil {
			return listing.Result[Entry]{}, err
		}
		return listing.NewResult(items, total, q), nil
	})
}

// Get returns a single live entry.
func (s *Service) Get(ctx context.Context, id int64) (Entry, error) {
	if id <= 0 {
		return Entry{}, shared.ErrNotFound
	}
	key := cache.Key{Domain: CacheDomain, Entity: s.entity, Suffix: "id=" + strconv.FormatInt(id, 10)}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) (Entry, error) {
		return s.repo.Get(ctx, id)
	})
}

// Create inserts an entry, then invalidates the entity's cache prefix. The
// invalidation runs only after the write is confirmed.
func (s *Service) Create(ctx context.Context, actorID int64, form EntryForm) (Entry, error) {
	if err := validateForm(form); err != nil {
		return Entry{}, err
	}
	entry, err := s.repo.Create(ctx, form)
	if err != nil {
		return Entry{}, err
	}
	s.store.Invalidate(CacheDomain, s.entity)
	s.audit.Record(ctx, actorID, s.entity, entry.ID, "create")
	return entry, nil
}

// Update rewrites an entry and invalidates on success.
func (s *Service) Update(ctx context.Context, actorID, id int64, form EntryForm) (Entry, error) {
	if id <= 0 {
		return Entry{}, shared.ErrNotFound
	}
	if err := validateForm(form); err != nil {
		return Entry{}, err
	}
	entry, err := s.repo.Update(ctx, id, form)
	if err != nil {
		return Entry{}, err
	}
	s.store.Invalidate(CacheDomain, s.entity)
	s.audit.Record(ctx, actorID, s.entity, id, "update")
	return entry, nil
}

// Delete soft-deletes an entry and invalidates on success.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.store.Invalidate(CacheDomain, s.entity)
	s.audit.Record(ctx, actorID, s.entity, id, "delete")
	return nil
}

func validateForm(form EntryForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if strings.TrimSpace(form.ReferenceCode) == "" {
		return fmt.Errorf("%w: reference code is required", shared.ErrValidation)
	}
	return nil
}
