package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productsDesc = Descriptor{
	Table:        "products",
	Columns:      []string{"id", "name", "model", "created_at"},
	SearchFields: []string{"name", "model"},
	SortFields: map[string]string{
		"name":       "name",
		"created_at": "created_at",
	},
	DefaultSort: "created_at",
	OwnerColumn: "user_id",
}

var directivesDesc = Descriptor{
	Table:        "directives",
	Columns:      []string{"id", "name", "reference_code", "created_at"},
	SearchFields: []string{"name", "reference_code"},
	SortFields: map[string]string{
		"name":       "name",
		"created_at": "created_at",
	},
	DefaultSort: "created_at",
	SoftDelete:  true,
}

func TestBuildSelectDefaults(t *testing.T) {
	sql, args := BuildSelect(directivesDesc, Query{}, 0)

	assert.Equal(t,
		"SELECT id, name, reference_code, created_at FROM directives"+
			" WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		sql)
	assert.Equal(t, []any{10, 0}, args)
}

func TestBuildSelectSearchAndFilters(t *testing.T) {
	q := Query{
		Search:  "Acme",
		Filters: map[string]any{"category_id": int64(3)},
		SortBy:  "name",
		SortDir: "asc",
		Page:    2,
		PerPage: 25,
	}
	sql, args := BuildSelect(productsDesc, q, 77)

	assert.Equal(t,
		"SELECT id, name, model, created_at FROM products"+
			" WHERE user_id = $1 AND category_id = $2 AND (name ILIKE $3 OR model ILIKE $3)"+
			" ORDER BY name ASC LIMIT $4 OFFSET $5",
		sql)
	require.Len(t, args, 5)
	assert.Equal(t, int64(77), args[0])
	assert.Equal(t, int64(3), args[1])
	assert.Equal(t, "%acme%", args[2], "search term is case-folded")
	assert.Equal(t, 25, args[3])
	assert.Equal(t, 25, args[4])
}

func TestBuildCountSharesPredicateIgnoresPagination(t *testing.T) {
	q := Query{Search: "acme", Page: 9, PerPage: 50}
	sql, args := BuildCount(productsDesc, q, 77)

	assert.Equal(t,
		"SELECT COUNT(*) FROM products WHERE user_id = $1 AND (name ILIKE $2 OR model ILIKE $2)",
		sql)
	assert.Equal(t, []any{int64(77), "%acme%"}, args)

	_, pageArgs := BuildCount(productsDesc, Query{Search: "acme", Page: 1, PerPage: 10}, 77)
	assert.Equal(t, args, pageArgs, "count predicate must not depend on the page requested")
}

func TestBuildSelectUnknownSortFallsBack(t *testing.T) {
	sql, _ := BuildSelect(productsDesc, Query{SortBy: "password_hash; DROP TABLE products"}, 1)
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.NotContains(t, sql, "DROP TABLE")
}

func TestBuildSelectNilFilterIsNoOp(t *testing.T) {
	sql, args := BuildSelect(productsDesc, Query{Filters: map[string]any{"category_id": nil}}, 1)
	assert.NotContains(t, sql, "category_id")
	assert.NotContains(t, sql, "NULL = ")
	assert.Equal(t, []any{int64(1), 10, 0}, args)
}

func TestBuildSelectOwnerZeroUnscoped(t *testing.T) {
	sql, _ := BuildSelect(productsDesc, Query{}, 0)
	assert.NotContains(t, sql, "user_id")
}
