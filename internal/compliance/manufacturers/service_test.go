package manufacturers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

type mockRepository struct {
	rows      []Manufacturer
	nextID    int64
	listCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{nextID: 1}
}

func (m *mockRepository) seed(ownerID int64, name string) Manufacturer {
	row := Manufacturer{ID: m.nextID, UserID: ownerID, Name: name, CreatedAt: time.Now()}
	m.nextID++
	m.rows = append(m.rows, row)
	return row
}

func (m *mockRepository) List(ctx context.Context, ownerID int64, q listing.Query) ([]Manufacturer, int, error) {
	m.listCalls++
	n := q.Normalize()

	var matched []Manufacturer
	for _, row := range m.rows {
		if row.UserID == ownerID {
			matched = append(matched, row)
		}
	}
	total := len(matched)

	start := n.Offset()
	if start > total {
		start = total
	}
	end := start + n.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *mockRepository) Get(ctx context.Context, ownerID, id int64) (Manufacturer, error) {
	for _, row := range m.rows {
		if row.ID == id && row.UserID == ownerID {
			return row, nil
		}
	}
	return Manufacturer{}, shared.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, ownerID int64, form Form) (Manufacturer, error) {
	return m.seed(ownerID, form.Name), nil
}

func (m *mockRepository) Update(ctx context.Context, ownerID, id int64, form Form) (Manufacturer, error) {
	for i, row := range m.rows {
		if row.ID == id && row.UserID == ownerID {
			m.rows[i].Name = form.Name
			return m.rows[i], nil
		}
	}
	return Manufacturer{}, shared.ErrNotFound
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

func newTestService(repo Repository) *Service {
	return NewService(repo, cache.New(0), nil)
}

func TestListScopedToOwner(t *testing.T) {
	repo := newMockRepository()
	repo.seed(1, "Acme GmbH")
	repo.seed(1, "Beta SRL")
	repo.seed(2, "Gamma Ltd")
	svc := newTestService(repo)

	mine, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, mine.TotalCount)

	theirs, err := svc.List(context.Background(), 2, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, theirs.TotalCount)
	assert.Equal(t, 2, repo.listCalls, "different owners must not share cache entries")
}

func TestListServedFromCache(t *testing.T) {
	repo := newMockRepository()
	repo.seed(1, "Acme GmbH")
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), 1, listing.Query{Page: 1, PerPage: 10, SortDir: "desc"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
}

func TestCreateInvalidatesOwnerLists(t *testing.T) {
	repo := newMockRepository()
	repo.seed(1, "Acme GmbH")
	svc := newTestService(repo)

	before, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	require.Equal(t, 1, before.TotalCount)

	_, err = svc.Create(context.Background(), 1, Form{Name: "Beta SRL"})
	require.NoError(t, err)

	after, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalCount, "read after write must observe the new row")
}

func TestGetDeniedAcrossOwners(t *testing.T) {
	repo := newMockRepository()
	row := repo.seed(1, "Acme GmbH")
	svc := newTestService(repo)

	_, err := svc.Get(context.Background(), 2, row.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	got, err := svc.Get(context.Background(), 1, row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.Name, got.Name)
}

func TestCreateValidatesBeforeWrite(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), 1, Form{Name: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.rows)
}

func TestDeleteInvalidates(t *testing.T) {
	repo := newMockRepository()
	row := repo.seed(1, "Acme GmbH")
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, row.ID))

	after, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 0, after.TotalCount)
}
