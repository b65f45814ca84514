package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

type mockRepository struct {
	entries   []Entry
	nextID    int64
	listCalls int
	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{nextID: 1}
}

func (m *mockRepository) seed(names ...string) {
	for _, name := range names {
		m.entries = append(m.entries, Entry{
			ID:            m.nextID,
			Name:          name,
			ReferenceCode: fmt.Sprintf("REF-%d", m.nextID),
			CreatedAt:     time.Now(),
		})
		m.nextID++
	}
}

func (m *mockRepository) List(ctx context.Context, q listing.Query) ([]Entry, int, error) {
	m.listCalls++
	n := q.Normalize()

	var matched []Entry
	for _, e := range m.entries {
		if n.Search != "" && !strings.Contains(strings.ToLower(e.Name), n.Search) {
			continue
		}
		matched = append(matched, e)
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

func (m *mockRepository) Get(ctx context.Context, id int64) (Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, shared.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, form EntryForm) (Entry, error) {
	if m.createErr != nil {
		return Entry{}, m.createErr
	}
	e := Entry{ID: m.nextID, Name: form.Name, ReferenceCode: form.ReferenceCode, Description: form.Description, CreatedAt: time.Now()}
	m.nextID++
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, form EntryForm) (Entry, error) {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries[i].Name = form.Name
			m.entries[i].ReferenceCode = form.ReferenceCode
			m.entries[i].Description = form.Description
			return m.entries[i], nil
		}
	}
	return Entry{}, shared.ErrNotFound
}

func (m *mockRepository) SoftDelete(ctx context.Context, id int64) error {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func newTestService(repo Repository) *Service {
	return NewService("directives", repo, cache.New(0), nil)
}

func TestListServedFromCache(t *testing.T) {
	repo := newMockRepository()
	repo.seed("Machinery Directive", "Toy Safety Directive")
	svc := newTestService(repo)

	q := listing.Query{Page: 1, PerPage: 10}
	first, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "identical queries must share one repository read")
}

func TestEquivalentQueriesShareCacheEntry(t *testing.T) {
	repo := newMockRepository()
	repo.seed("Machinery Directive")
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), listing.Query{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), listing.Query{Page: 1, PerPage: 10, SortDir: "desc"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls, "defaults and explicit defaults must hit the same entry")
}

func TestCreateInvalidatesCachedLists(t *testing.T) {
	repo := newMockRepository()
	repo.seed("Machinery Directive")
	svc := newTestService(repo)

	q := listing.Query{}
	before, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 1, before.TotalCount)

	_, err = svc.Create(context.Background(), 1, EntryForm{Name: "RoHS Directive", ReferenceCode: "2011/65/EU"})
	require.NoError(t, err)

	after, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalCount, "read after write must observe the new row")
	assert.Equal(t, 2, repo.listCalls)
}

func TestFailedCreateKeepsCache(t *testing.T) {
	repo := newMockRepository()
	repo.seed("Machinery Directive")
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), listing.Query{})
	require.NoError(t, err)

	repo.createErr = errors.New("unique violation")
	_, err = svc.Create(context.Background(), 1, EntryForm{Name: "Dup", ReferenceCode: "X"})
	require.Error(t, err)

	_, err = svc.List(context.Background(), listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "failed mutation must not invalidate")
}

func TestCreateValidatesBeforeWrite(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), 1, EntryForm{Name: "  ", ReferenceCode: "X"})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.entries)
}

func TestSearchPagination(t *testing.T) {
	repo := newMockRepository()
	for i := 0; i < 25; i++ {
		repo.seed(fmt.Sprintf("Acme Directive %02d", i))
	}
	repo.seed("Unrelated Directive")
	svc := newTestService(repo)

	result, err := svc.List(context.Background(), listing.Query{Search: "acme", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, result.Items, 10)
	assert.Equal(t, 25, result.TotalCount)

	past, err := svc.List(context.Background(), listing.Query{Search: "acme", Page: 9, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.Equal(t, 25, past.TotalCount, "total ignores pagination even past the last page")
}

func TestDeleteInvalidates(t *testing.T) {
	repo := newMockRepository()
	repo.seed("Machinery Directive")
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), listing.Query{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, 1))

	after, err := svc.List(context.Background(), listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 0, after.TotalCount)
}
