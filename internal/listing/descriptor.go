package listing

// Descriptor declares how an entity's table participates in the list
// contract. One descriptor per entity, defined next to its repository.
type Descriptor struct {
	// Table is the relation name.
	Table string
	// Columns is the select list for page rows.
	Columns []string
	// SearchFields are the text columns matched case-insensitively,
	// OR-combined, when a search term is present.
	SearchFields []string
	// SortFields whitelists exposed sort names to column names. A sort
	// request outside this map falls back to the default sort; field names
	// are never interpolated from user input.
	SortFields map[string]string
	// DefaultSort is the column ordered by when no (or an unknown) sort
	// field is requested. Conventionally the creation timestamp.
	DefaultSort string
	// SoftDelete scopes every read to deleted_at IS NULL.
	SoftDelete bool
	// OwnerColumn, when set, scopes reads to the requesting owner.
	OwnerColumn string
}

// OrderBy resolves the ORDER BY clause for a normalized query.
func (d Descriptor) OrderBy(q Query) string {
	dir := "DESC"
	if q.SortDir == DirAsc {
		dir = "ASC"
	}
	if col, ok := d.SortFields[q.SortBy]; ok && q.SortBy != "" {
		return col + " " + dir
	}
	return d.DefaultSort + " DESC"
}
