package products

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
	rows      []Product
	nextID    int64
	listCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, ownerID int64, q listing.Query) ([]Product, int, error) {
	m.listCalls++
	n := q.Normalize()

	var matched []Product
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

func (m *mockRepository) Get(ctx context.Context, ownerID, id int64) (Product, error) {
	for _, row := range m.rows {
		if row.ID == id && row.UserID == ownerID {
			return row, nil
		}
	}
	return Product{}, shared.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, ownerID int64, form Form) (Product, error) {
	p := Product{
		ID:            m.nextID,
		UserID:        ownerID,
		Name:          form.Name,
		DirectiveIDs:  form.DirectiveIDs,
		RegulationIDs: form.RegulationIDs,
		StandardIDs:   form.StandardIDs,
		CreatedAt:     time.Now(),
	}
	m.nextID++
	m.rows = append(m.rows, p)
	return p, nil
}

func (m *mockRepository) Update(ctx context.Context, ownerID, id int64, form Form) (Product, error) {
	for i, row := range m.rows {
		if row.ID == id && row.UserID == ownerID {
			m.rows[i].Name = form.Name
			m.rows[i].DirectiveIDs = form.DirectiveIDs
			return m.rows[i], nil
		}
	}
	return Product{}, shared.ErrNotFound
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

func TestCreateCarriesCatalogueLinks(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), 1, Form{
		Name:          "Smart Kettle",
		DirectiveIDs:  []int64{3, 5},
		RegulationIDs: []int64{7},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, p.DirectiveIDs)
	assert.Equal(t, []int64{7}, p.RegulationIDs)
}

func TestListScopedToOwnerAndCached(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), 1, Form{Name: "Smart Kettle"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 2, Form{Name: "Other Kettle"})
	require.NoError(t, err)

	mine, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.TotalCount)

	calls := repo.listCalls
	again, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, mine, again)
	assert.Equal(t, calls, repo.listCalls, "repeat read must come from cache")
}

func TestUpdateInvalidates(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), 1, Form{Name: "Smart Kettle"})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 1, p.ID, Form{Name: "Smarter Kettle"})
	require.NoError(t, err)

	after, err := svc.List(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	require.Len(t, after.Items, 1)
	assert.Equal(t, "Smarter Kettle", after.Items[0].Name)
}

func TestGetDeniedAcrossOwners(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), 1, Form{Name: "Smart Kettle"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, p.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateValidatesBeforeWrite(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), 1, Form{Name: " "})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.rows)
}
