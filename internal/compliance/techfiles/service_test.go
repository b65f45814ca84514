package techfiles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

type mockRepository struct {
	rows   []File
	nextID int64
}

func (m *mockRepository) List(ctx context.Context, ownerID int64, q listing.Query) ([]File, int, error) {
	var matched []File
	for _, row := range m.rows {
		if row.UserID == ownerID {
			matched = append(matched, row)
		}
	}
	return matched, len(matched), nil
}

func (m *mockRepository) Create(ctx context.Context, f File) (File, error) {
	m.nextID++
	f.ID = m.nextID
	f.CreatedAt = time.Now()
	m.rows = append(m.rows, f)
	return f, nil
}

func (m *mockRepository) Delete(ctx context.Context, ownerID, id int64) error {
	for i, row := range m.rows {
		if row.ID == id && row.UserID == ownerID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func TestRegisterMintsStorageKey(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, cache.New(0))

	f, err := svc.Register(context.Background(), 1, Form{
		ProductID:   10,
		FileName:    "declaration-of-conformity.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	require.NoError(t, err)

	parsed, err := uuid.Parse(f.StorageKey)
	require.NoError(t, err, "storage key must be a uuid")
	assert.NotEqual(t, uuid.Nil, parsed)

	g, err := svc.Register(context.Background(), 1, Form{ProductID: 10, FileName: "test-report.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.NotEqual(t, f.StorageKey, g.StorageKey)
}

func TestRegisterValidates(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, cache.New(0))

	_, err := svc.Register(context.Background(), 1, Form{FileName: "x.pdf", ContentType: "application/pdf"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Register(context.Background(), 1, Form{ProductID: 10, FileName: "  ", ContentType: "application/pdf"})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.rows)
}

func TestDeleteScopedToOwner(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, cache.New(0))

	f, err := svc.Register(context.Background(), 1, Form{ProductID: 10, FileName: "doc.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), 2, f.ID), shared.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), 1, f.ID))
}
