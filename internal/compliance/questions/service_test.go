package questions

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
	rows      []Answer
	nextID    int64
	listCalls int
}

func (m *mockRepository) List(ctx context.Context, ownerID int64, q listing.Query) ([]Answer, int, error) {
	m.listCalls++
	n := q.Normalize()

	var matched []Answer
	for _, row := range m.rows {
		if row.UserID != ownerID {
			continue
		}
		if pid, ok := n.Filters["product_id"]; ok && pid != row.ProductID {
			continue
		}
		matched = append(matched, row)
	}
	total := len(matched)
	end := n.Offset() + n.PerPage
	if end > total {
		end = total
	}
	start := n.Offset()
	if start > total {
		start = total
	}
	return matched[start:end], total, nil
}

func (m *mockRepository) Create(ctx context.Context, ownerID int64, form Form) (Answer, error) {
	m.nextID++
	a := Answer{ID: m.nextID, UserID: ownerID, ProductID: form.ProductID, Question: form.Question, Answer: form.Answer, CreatedAt: time.Now()}
	m.rows = append(m.rows, a)
	return a, nil
}

func (m *mockRepository) Update(ctx context.Context, ownerID, id int64, form Form) (Answer, error) {
	for i, row := range m.rows {
		if row.ID == id && row.UserID == ownerID {
			m.rows[i].Answer = form.Answer
			return m.rows[i], nil
		}
	}
	return Answer{}, shared.ErrNotFound
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

func TestListFiltersByProduct(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, cache.New(0))

	_, err := svc.Create(context.Background(), 1, Form{ProductID: 10, Question: "CE marking affixed?", Answer: "yes"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, Form{ProductID: 11, Question: "Manual translated?", Answer: "no"})
	require.NoError(t, err)

	result, err := svc.List(context.Background(), 1, listing.Query{Filters: map[string]any{"product_id": int64(10)}})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCount)
	assert.Equal(t, "CE marking affixed?", result.Items[0].Question)
}

func TestCreateInvalidatesProductLists(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, cache.New(0))

	_, err := svc.Create(context.Background(), 1, Form{ProductID: 10, Question: "CE marking affixed?"})
	require.NoError(t, err)

	q := listing.Query{Filters: map[string]any{"product_id": int64(10)}}
	before, err := svc.List(context.Background(), 1, q)
	require.NoError(t, err)
	require.Equal(t, 1, before.TotalCount)

	_, err = svc.Create(context.Background(), 1, Form{ProductID: 10, Question: "Manual translated?"})
	require.NoError(t, err)

	after, err := svc.List(context.Background(), 1, q)
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalCount)
}

func TestCreateRequiresProductAndQuestion(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, cache.New(0))

	_, err := svc.Create(context.Background(), 1, Form{Question: "no product"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), 1, Form{ProductID: 10, Question: "  "})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.rows)
}
