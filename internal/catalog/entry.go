// Package catalog implements the admin-maintained compliance catalogues:
// directives, regulations and standards. The three entities share one row
// shape and one repository; a listing descriptor per entity keeps their
// tables, search fields and sort whitelists separate. Catalogue rows are
// soft-deleted and disappear from every read path once deleted_at is set.
package catalog

import "time"

// Entry is a catalogue row.
type Entry struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ReferenceCode string    `json:"reference_code"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EntryForm carries create/update input.
type EntryForm struct {
	Name          string `json:"name" validate:"required,max=300"`
	ReferenceCode string `json:"reference_code" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=2000"`
}
