package authz

import (
	"context"
	"errors"
	"log/slog"

	"github.com/complyhub/complyhub/internal/shared"
)

// Resolver determines a principal's role.
type Resolver struct {
	repo   Repository
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(repo Repository, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// Resolve returns the role for the given principal id. A zero id short
// circuits to RoleNone without a lookup. Missing records and lookup failures
// both resolve to RoleNone: authorization fails closed, and the error is
// only logged.
func (r *Resolver) Resolve(ctx context.Context, principalID int64) Role {
	if principalID == 0 {
		return RoleNone
	}
	rec, err := r.repo.FindRecord(ctx, principalID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && r.logger != nil {
			r.logger.Warn("authz lookup failed, denying", slog.Int64("user_id", principalID), slog.Any("error", err))
		}
		return RoleNone
	}
	return rec.Role
}
