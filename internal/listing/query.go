// Package listing implements the shared list contract used by every
// paginated read in the application: a declarative Query is combined with a
// per-entity Descriptor to produce filtered, sorted, paginated SQL together
// with a total count computed from the same predicate.
package listing

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

const (
	// DefaultPerPage is the page size applied when none is requested.
	DefaultPerPage = 10

	// DirAsc and DirDesc are the recognized sort directions.
	DirAsc  = "asc"
	DirDesc = "desc"
)

// Query describes a filtered, sorted, paginated read. The zero value is
// valid and behaves identically to the stated defaults.
type Query struct {
	Search  string
	Filters map[string]any
	SortBy  string
	SortDir string
	Page    int
	PerPage int
}

// Normalize returns a copy with defaults applied: page 1, per-page 10,
// descending direction. Nil filter values are dropped so an absent filter
// never becomes an "equals null" predicate.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	switch strings.ToLower(q.SortDir) {
	case DirAsc:
		q.SortDir = DirAsc
	default:
		q.SortDir = DirDesc
	}
	q.Search = foldSearch(q.Search)
	if len(q.Filters) > 0 {
		filters := make(map[string]any, len(q.Filters))
		for k, v := range q.Filters {
			if v == nil {
				continue
			}
			filters[k] = v
		}
		q.Filters = filters
	}
	return q
}

// Offset returns the row offset implied by page and page size.
func (q Query) Offset() int {
	n := q.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Key returns a canonical serialization of the query, independent of filter
// insertion order. Two semantically identical queries always produce the
// same key, which is what makes them share a cache entry.
func (q Query) Key() string {
	n := q.Normalize()
	var b strings.Builder
	fmt.Fprintf(&b, "page=%d&per=%d&sort=%s.%s", n.Page, n.PerPage, n.SortBy, n.SortDir)
	if n.Search != "" {
		fmt.Fprintf(&b, "&q=%s", n.Search)
	}
	if len(n.Filters) > 0 {
		keys := make([]string, 0, len(n.Filters))
		for k := range n.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "&f.%s=%v", k, n.Filters[k])
		}
	}
	return b.String()
}

var searchFolder = cases.Fold()

func foldSearch(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return searchFolder.String(term)
}
