// Package questions stores per-product compliance questionnaire answers.
package questions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

const (
	cacheDomain = "compliance"
	cacheEntity = "question_answers"
)

// Answer is one answered questionnaire item for a product.
type Answer struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Form carries create/update input.
type Form struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Question  string `json:"question" validate:"required,max=1000"`
	Answer    string `json:"answer" validate:"max=5000"`
}

// Descriptor describes the question_answers table for the list contract.
func Descriptor() listing.Descriptor {
	return listing.Descriptor{
		Table:        "question_answers",
		Columns:      []string{"id", "user_id", "product_id", "question", "answer", "created_at", "updated_at"},
		SearchFields: []string{"question", "answer"},
		SortFields: map[string]string{
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		OwnerColumn: "user_id",
	}
}

// Repository persists answers.
type Repository interface {
	List(ctx context.Context, ownerID int64, q listing.Query) ([]Answer, int, error)
	Create(ctx context.Context, ownerID int64, form Form) (Answer, error)
	Update(ctx context.Context, ownerID, id int64, form Form) (Answer, error)
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

func (r *repository) List(ctx context.Context, ownerID int64, q listing.Query) ([]Answer, int, error) {
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

	var items []Answer
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProductID, &a.Question, &a.Answer, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, ownerID int64, form Form) (Answer, error) {
	const query = `INSERT INTO question_answers (user_id, product_id, question, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, user_id, product_id, question, answer, created_at, updated_at`
	var a Answer
	err := r.pool.QueryRow(ctx, query, ownerID, form.ProductID, form.Question, form.Answer).
		Scan(&a.ID, &a.UserID, &a.ProductID, &a.Question, &a.Answer, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Answer{}, err
	}
	return a, nil
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, form Form) (Answer, error) {
	const query = `UPDATE question_answers SET question = $1, answer = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, product_id, question, answer, created_at, updated_at`
	var a Answer
	err := r.pool.QueryRow(ctx, query, form.Question, form.Answer, id, ownerID).
		Scan(&a.ID, &a.UserID, &a.ProductID, &a.Question, &a.Answer, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Answer{}, shared.ErrNotFound
		}
		return Answer{}, err
	}
	return a, nil
}

func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM question_answers WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Service exposes the owner-scoped answer operations.
type Service struct {
	repo  Repository
	store *cache.Store
}

// NewService constructs a Service.
func NewService(repo Repository, store *cache.Store) *Service {
	return &Service{repo: repo, store: store}
}

// List returns one page of the owner's answers, usually filtered by
// product_id.
func (s *Service) List(ctx context.Context, ownerID int64, q listing.Query) (listing.Result[Answer], error) {
	suffix := "owner=" + strconv.FormatInt(ownerID, 10) + "&" + q.Key()
	key := cache.Key{Domain: cacheDomain, Entity: cacheEntity, Suffix: suffix}
	return cache.GetOrLoad(ctx, s.store, key, func(ctx context.Context) (listing.Result[Answer], error) {
		items, total, err := s.repo.List(ctx, ownerID, q)
		if err != nil {
			return listing.Result[Answer]{}, err
		}
		return listing.NewResult(items, total, q), nil
	})
}

// Create stores an answer and invalidates on success.
func (s *Service) Create(ctx context.Context, ownerID int64, form Form) (Answer, error) {
	if err := validateForm(form); err != nil {
		return Answer{}, err
	}
	a, err := s.repo.Create(ctx, ownerID, form)
	if err != nil {
		return Answer{}, err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	return a, nil
}

// Update rewrites an answer's text.
func (s *Service) Update(ctx context.Context, ownerID, id int64, form Form) (Answer, error) {
	if id <= 0 {
		return Answer{}, shared.ErrNotFound
	}
	if err := validateForm(form); err != nil {
		return Answer{}, err
	}
	a, err := s.repo.Update(ctx, ownerID, id, form)
	if err != nil {
		return Answer{}, err
	}
	s.store.Invalidate(cacheDomain, cacheEntity)
	return a, nil
}

// Delete removes an answer.
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
	if strings.TrimSpace(form.Question) == "" {
		return fmt.Errorf("%w: question is required", shared.ErrValidation)
	}
	return nil
}
