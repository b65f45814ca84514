package listing

import (
	"sort"
	"strconv"
	"strings"
)

// BuildSelect produces the page query for a descriptor. Scope predicates
// (soft delete, ownership) are applied before search, filters and sort.
// ownerID of zero means unscoped (admin reads).
func BuildSelect(d Descriptor, q Query, ownerID int64) (string, []any) {
	n := q.Normalize()
	where, args := buildPredicate(d, n, ownerID)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(d.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(d.Table)
	b.WriteString(where)
	b.WriteString(" ORDER BY ")
	b.WriteString(d.OrderBy(n))

	args = append(args, n.PerPage)
	b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, n.Offset())
	b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	return b.String(), args
}

// BuildCount produces the total-count query sharing the exact predicate of
// BuildSelect while ignoring pagination.
func BuildCount(d Descriptor, q Query, ownerID int64) (string, []any) {
	n := q.Normalize()
	where, args := buildPredicate(d, n, ownerID)
	return "SELECT COUNT(*) FROM " + d.Table + where, args
}

func buildPredicate(d Descriptor, n Query, ownerID int64) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if d.SoftDelete {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if d.OwnerColumn != "" && ownerID != 0 {
		clauses = append(clauses, d.OwnerColumn+" = "+arg(ownerID))
	}

	if len(n.Filters) > 0 {
		keys := make([]string, 0, len(n.Filters))
		for k := range n.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			clauses = append(clauses, k+" = "+arg(n.Filters[k]))
		}
	}

	if n.Search != "" && len(d.SearchFields) > 0 {
		placeholder := arg("%" + n.Search + "%")
		parts := make([]string, len(d.SearchFields))
		for i, col := range d.SearchFields {
			parts[i] = col + " ILIKE " + placeholder
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
