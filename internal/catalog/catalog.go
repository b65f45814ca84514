package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
)

var entryColumns = []string{"id", "name", "reference_code", "description", "created_at", "updated_at"}

var entrySortFields = map[string]string{
	"name":           "name",
	"reference_code": "reference_code",
	"created_at":     "created_at",
}

func entryDescriptor(table string) listing.Descriptor {
	return listing.Descriptor{
		Table:        table,
		Columns:      entryColumns,
		SearchFields: []string{"name", "reference_code", "description"},
		SortFields:   entrySortFields,
		DefaultSort:  "created_at",
		SoftDelete:   true,
	}
}

// DirectivesDescriptor describes the directives table.
func DirectivesDescriptor() listing.Descriptor { return entryDescriptor("directives") }

// RegulationsDescriptor describes the regulations table.
func RegulationsDescriptor() listing.Descriptor { return entryDescriptor("regulations") }

// StandardsDescriptor describes the standards table.
func StandardsDescriptor() listing.Descriptor { return entryDescriptor("standards") }

// Set groups the three catalogue services.
type Set struct {
	Directives  *Service
	Regulations *Service
	Standards   *Service
}

// NewSet wires the catalogue services against one pool, cache and audit log.
func NewSet(pool *pgxpool.Pool, store *cache.Store, audit *shared.AuditLogger) Set {
	return Set{
		Directives:  NewService("directives", NewRepository(pool, DirectivesDescriptor()), store, audit),
		Regulations: NewService("regulations", NewRepository(pool, RegulationsDescriptor()), store, audit),
		Standards:   NewService("standards", NewRepository(pool, StandardsDescriptor()), store, audit),
	}
}

// All returns the services for iteration (warmup job, route mounting).
func (s Set) All() []*Service {
	return []*Service{s.Directives, s.Regulations, s.Standards}
}
