package listing

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Result is one page of rows plus the total count matching the filter
// predicate regardless of pagination.
type Result[T any] struct {
	Items      []T        `json:"items"`
	TotalCount int        `json:"total_count"`
	Pagination Pagination `json:"pagination"`
}

// NewResult assembles a Result for the given query. A nil items slice is
// normalized to empty so pages past the end serialize as [].
func NewResult[T any](items []T, total int, q Query) Result[T] {
	n := q.Normalize()
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:      items,
		TotalCount: total,
		Pagination: NewPagination(n.Page, n.PerPage, total),
	}
}
