package billing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/identity"
	"github.com/complyhub/complyhub/internal/shared"
)

const cacheDomain = "billing"

// Package is one purchasable subscription package. Packages are maintained
// by the payments provider and read-only here.
type Package struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Interval    string    `json:"interval"`
	CreatedAt   time.Time `json:"created_at"`
}

// Payments is the slice of PaymentsClient the service uses; split out so
// tests can fake the provider.
type Payments interface {
	CreateCheckoutSession(ctx context.Context, customerRef string, packageID int64) (CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerRef string) (CheckoutSession, error)
	ListSubscriptions(ctx context.Context) ([]SubscriptionState, error)
}

// Service exposes package listing, checkout/portal session creation and the
// subscription reconciliation used by the background sync job.
type Service struct {
	pool     *pgxpool.Pool
	payments Payments
	store    *cache.Store
}

// NewService constructs a Service.
func NewService(pool *pgxpool.Pool, payments Payments, store *cache.Store) *Service {
	return &Service{pool: pool, payments: payments, store: store}
}

// Packages returns every purchasable package, cached until invalidated.
func (s *Service) Packages(ctx context.Context) ([]Package, error) {
	key := cache.Key{Domain: cacheDomain, Entity: "packages", Suffix: "all"}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) ([]Package, error) {
		rows, err := s.pool.Query(ctx, `SELECT id, name, description, price_cents, currency, billing_interval, created_at FROM packages ORDER BY price_cents`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		pkgs := []Package{}
		for rows.Next() {
			var p Package
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Currency, &p.Interval, &p.CreatedAt); err != nil {
				return nil, err
			}
			pkgs = append(pkgs, p)
		}
		return pkgs, rows.Err()
	})
}

// Checkout opens a hosted checkout session for the principal.
func (s *Service) Checkout(ctx context.Context, principal identity.Principal, packageID int64) (CheckoutSession, error) {
	if packageID <= 0 {
		return CheckoutSession{}, fmt.Errorf("%w: package id is required", shared.ErrValidation)
	}
	return s.payments.CreateCheckoutSession(ctx, customerRef(principal.ID), packageID)
}

// Portal opens the provider's self-service billing portal for the principal.
func (s *Service) Portal(ctx context.Context, principal identity.Principal) (CheckoutSession, error) {
	return s.payments.CreatePortalSession(ctx, customerRef(principal.ID))
}

// SyncSubscriptions pulls the provider's subscription states and writes the
// status and plan back onto the user rows. Returns the number of rows
// updated.
func (s *Service) SyncSubscriptions(ctx context.Context) (int, error) {
	states, err := s.payments.ListSubscriptions(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, state := range states {
		userID, err := strconv.ParseInt(state.CustomerRef, 10, 64)
		if err != nil {
			continue
		}
		tag, err := s.pool.Exec(ctx,
			`UPDATE users SET subscription_status = $1, plan_id = $2 WHERE id = $3`,
			state.Status, state.PlanID, userID)
		if err != nil {
			return updated, err
		}
		updated += int(tag.RowsAffected())
	}
	return updated, nil
}

// customerRef is the stable reference handed to the payments provider; the
// provider echoes it back in subscription states.
func customerRef(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
