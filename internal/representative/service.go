package representative

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hibiken/asynq"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
	"github.com/complyhub/complyhub/jobs"
)

const (
	cacheDomain = "representative"
	cacheEntity = "requests"
)

// Mailer enqueues notification emails. Satisfied by jobs.Client.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
}

// Service runs the representative-request lifecycle: customers submit,
// back-office staff approve or reject, and approval is what entitles the
// customer to a representative address for that region.
type Service struct {
	repo   Repository
	store  *cache.Store
	mailer Mailer
	logger *slog.Logger
	// opsEmail receives the new-request notification.
	opsEmail string
}

// NewService constructs a Service. mailer may be nil in environments without
// a queue; notifications are then skipped.
func NewService(repo Repository, store *cache.Store, mailer Mailer, logger *slog.Logger, opsEmail string) *Service {
	return &Service{repo: repo, store: store, mailer: mailer, logger: logger, opsEmail: opsEmail}
}

// ListMine returns the owner's requests.
func (s *Service) ListMine(ctx context.Context, ownerID int64, q listing.Query) (listing.Result[Request], error) {
	suffix := "owner=" + strconv.FormatInt(ownerID, 10) + "&" + q.Key()
	key := cache.Key{Domain: cacheDomain, Entity: cacheEntity, Suffix: suffix}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) (listing.Result[Request], error) {
		items, total, err := s.repo.ListRequests(ctx, ownerID, q)
		if err != nil {
			return listing.Result[Request]{}, err
		}
		return listing.NewResult(items, total, q), nil
	})
}

// ListAll returns requests across every owner, for the admin queue. Not
// cached: the queue is small and staff expect to see submissions instantly.
func (s *Service) ListAll(ctx context.Context, q listing.Query) (listing.Result[Request], error) {
	items, total, err := s.repo.ListRequests(ctx, 0, q)
	if err != nil {
		return listing.Result[Request]{}, err
	}
	return listing.NewResult(items, total, q), nil
}

// Submit files a new request and notifies the back office.
func (s *Service) Submit(ctx context.Context, ownerID int64, form RequestForm) (Request, error) {
	if form.Region != RegionEU && form.Region != RegionUK {
		return Request{}, fmt.Errorf("%w: region must be eu or uk", shared.ErrValidation)
	}
	req, err := s.repo.CreateRequest(ctx, ownerID, form)
	if err != nil {
		return Request{}, err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	s.notify(ctx, req)
	return req, nil
}

// Approve moves a pending request to approved.
func (s *Service) Approve(ctx context.Context, id int64) (Request, error) {
	return s.transition(ctx, id, StatusApproved)
}

// Reject moves a pending request to rejected.
func (s *Service) Reject(ctx context.Context, id int64) (Request, error) {
	return s.transition(ctx, id, StatusRejected)
}

// transition enforces that only pending requests move; a decided request
// stays decided.
func (s *Service) transition(ctx context.Context, id int64, status string) (Request, error) {
	current, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if current.Status != StatusPending {
		return Request{}, fmt.Errorf("%w: request already %s", shared.ErrValidation, current.Status)
	}
	req, err := s.repo.SetRequestStatus(ctx, id, status)
	if err != nil {
		return Request{}, err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	return req, nil
}

// Addresses returns the owner's representative addresses. An empty list is
// the normal state before any request is approved.
func (s *Service) Addresses(ctx context.Context, ownerID int64) ([]Address, error) {
	key := cache.Key{Domain: cacheDomain, Entity: "addresses", Suffix: "owner=" + strconv.FormatInt(ownerID, 10)}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) ([]Address, error) {
		return s.repo.ListAddresses(ctx, ownerID)
	})
}

// AssignAddress records the representative address granted to a customer.
// Admin-only; callers gate it.
func (s *Service) AssignAddress(ctx context.Context, a Address) (Address, error) {
	if a.UserID <= 0 {
		return Address{}, fmt.Errorf("%w: user id is required", shared.ErrValidation)
	}
	if a.Region != RegionEU && a.Region != RegionUK {
		return Address{}, fmt.Errorf("%w: region must be eu or uk", shared.ErrValidation)
	}
	created, err := s.repo.CreateAddress(ctx, a)
	if err != nil {
		return Address{}, err
	}
	s.store.Invalidate(cacheDomain, "addresses")
	return created, nil
}

// RevokeAddress removes an assigned address.
func (s *Service) RevokeAddress(ctx context.Context, id int64) error {
	if err := s.repo.DeleteAddress(ctx, id); err != nil {
		return err
	}
	s.store.Invalidate(cacheDomain, "addresses")
	return nil
}

// notify enqueues the new-request email. Failures are logged, never
// propagated: the submission already succeeded.
func (s *Service) notify(ctx context.Context, req Request) {
	if s.mailer == nil || s.opsEmail == "" {
		return
	}
	_, err := s.mailer.EnqueueSendEmail(ctx, jobs.SendEmailPayload{
		To:      s.opsEmail,
		Subject: "New representative request (" + req.Region + ")",
		Body:    fmt.Sprintf("Request #%d from user %d, company %s.", req.ID, req.UserID, req.Company),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("enqueue request notification", slog.Int64("request_id", req.ID), slog.Any("error", err))
	}
}
