package listing

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	n := Query{}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, 10, n.PerPage)
	assert.Equal(t, DirDesc, n.SortDir)
}

func TestKeyIsStructural(t *testing.T) {
	a := Query{Search: "acme", Filters: map[string]any{"category_id": 3, "type_id": 5}}
	b := Query{Filters: map[string]any{"type_id": 5, "category_id": 3}, Search: "acme"}
	assert.Equal(t, a.Key(), b.Key(), "filter insertion order must not change the key")

	c := Query{Search: "acme", Filters: map[string]any{"category_id": 4, "type_id": 5}}
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestKeyMatchesExplicitDefaults(t *testing.T) {
	implicit := Query{}
	explicit := Query{Page: 1, PerPage: 10, SortDir: "desc"}
	assert.Equal(t, implicit.Key(), explicit.Key())
}

func TestOffsetPastLastPage(t *testing.T) {
	q := Query{Page: 9, PerPage: 10}
	assert.Equal(t, 80, q.Offset())
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?page=2&per_page=25&search=acme&sort=name&dir=asc&category_id=3&bogus=1", nil)
	q := FromRequest(r, "category_id", "manufacturer_id")

	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 25, q.PerPage)
	assert.Equal(t, "acme", q.Search)
	assert.Equal(t, "name", q.SortBy)
	assert.Equal(t, "asc", q.SortDir)
	assert.Equal(t, map[string]any{"category_id": int64(3)}, q.Filters)
}

func TestNewResultPastEnd(t *testing.T) {
	res := NewResult[string](nil, 25, Query{Page: 9, PerPage: 10})
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 25, res.TotalCount)
	assert.Equal(t, 3, res.Pagination.TotalPages)
}
