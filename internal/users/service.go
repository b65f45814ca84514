package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/complyhub/complyhub/internal/shared"
)

// Service wraps profile business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the profile for the given user id.
func (s *Service) Get(ctx context.Context, id int64) (Profile, error) {
	if id <= 0 {
		return Profile{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// UpdateMetadata updates the mutable profile fields.
func (s *Service) UpdateMetadata(ctx context.Context, id int64, firstName, lastName, company string, planID *int64) (Profile, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return Profile{}, fmt.Errorf("%w: first and last name are required", shared.ErrValidation)
	}
	return s.repo.UpdateMetadata(ctx, id, firstName, lastName, strings.TrimSpace(company), planID)
}
