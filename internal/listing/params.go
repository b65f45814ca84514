package listing

import (
	"net/http"
	"strconv"
)

// FromRequest parses the standard list parameters from a request's query
// string. Only the named filter keys are honored; anything else is ignored.
// Filter values arrive as strings and are compared as-is by the builder,
// except values that parse as integers, which are passed through as int64
// so they bind cleanly to id columns.
func FromRequest(r *http.Request, filterKeys ...string) Query {
	values := r.URL.Query()

	page, _ := strconv.Atoi(values.Get("page"))
	perPage, _ := strconv.Atoi(values.Get("per_page"))

	q := Query{
		Search:  values.Get("search"),
		SortBy:  values.Get("sort"),
		SortDir: values.Get("dir"),
		Page:    page,
		PerPage: perPage,
	}

	for _, key := range filterKeys {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]any, len(filterKeys))
		}
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			q.Filters[key] = id
		} else {
			q.Filters[key] = raw
		}
	}

	return q
}
