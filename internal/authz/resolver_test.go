package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complyhub/complyhub/internal/shared"
)

type stubRecordRepo struct {
	records map[int64]*AuthorizationRecord
	err     error
	lookups int
}

func (s *stubRecordRepo) FindRecord(ctx context.Context, userID int64) (*AuthorizationRecord, error) {
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	rec, ok := s.records[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rec, nil
}

func TestResolveNoRecordIsNone(t *testing.T) {
	repo := &stubRecordRepo{records: map[int64]*AuthorizationRecord{}}
	resolver := NewResolver(repo, nil)

	assert.Equal(t, RoleNone, resolver.Resolve(context.Background(), 42))
	assert.Equal(t, 1, repo.lookups)
}

func TestResolveZeroIDSkipsLookup(t *testing.T) {
	repo := &stubRecordRepo{}
	resolver := NewResolver(repo, nil)

	assert.Equal(t, RoleNone, resolver.Resolve(context.Background(), 0))
	assert.Equal(t, 0, repo.lookups)
}

func TestResolveLookupErrorFailsClosed(t *testing.T) {
	repo := &stubRecordRepo{err: errors.New("connection refused")}
	resolver := NewResolver(repo, nil)

	assert.Equal(t, RoleNone, resolver.Resolve(context.Background(), 42))
}

func TestResolveReturnsStoredRole(t *testing.T) {
	repo := &stubRecordRepo{records: map[int64]*AuthorizationRecord{
		1: {UserID: 1, Role: RoleAdmin},
		2: {UserID: 2, Role: RoleSuperadmin},
	}}
	resolver := NewResolver(repo, nil)

	assert.Equal(t, RoleAdmin, resolver.Resolve(context.Background(), 1))
	assert.Equal(t, RoleSuperadmin, resolver.Resolve(context.Background(), 2))
}

func TestRolesAreNotHierarchical(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleAdmin.IsSuperadmin(), "admin must not satisfy a superadmin check")
	assert.True(t, RoleSuperadmin.IsAdmin())
	assert.True(t, RoleSuperadmin.IsSuperadmin())
	assert.False(t, RoleNone.IsAdmin())
	assert.False(t, RoleNone.IsSuperadmin())
}

func TestParseRoleUnknownIsNone(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleSuperadmin, ParseRole("superadmin"))
	assert.Equal(t, RoleNone, ParseRole("moderator"))
	assert.Equal(t, RoleNone, ParseRole(""))
}
