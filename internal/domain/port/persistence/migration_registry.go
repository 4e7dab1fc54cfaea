package persistence

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
)

// MigrationFilter narrows the migrations returned by a registry
type MigrationFilter struct {
	// IDs restricts to the named migrations; empty means all
	IDs []string
	// Groups restricts to the named groups; empty means all
	Groups []string
	// Tag restricts to migrations carrying the tag; empty means all
	Tag string
}

// MigrationRegistry exposes the configured migrations
type MigrationRegistry interface {
	// List returns the migrations matching the filter, in registry order
	//
	// Possible errors:
	// - ErrMigrationNotFound: If filter.IDs names a migration that isn't registered
	List(ctx context.Context, filter MigrationFilter) ([]*entity.Migration, error)

	// Get returns one migration
	//
	// Possible errors:
	// - ErrMigrationNotFound: If the migration isn't registered
	Get(ctx context.Context, id string) (*entity.Migration, error)

	// Group returns a migration group
	//
	// Possible errors:
	// - ErrGroupNotFound: If the group isn't registered
	Group(ctx context.Context, id string) (*entity.MigrationGroup, error)
}

// EntityTypeRepository exposes entity storage metadata
type EntityTypeRepository interface {
	// Get returns the metadata of an entity type
	//
	// Possible errors:
	// - ErrEntityTypeNotFound: If the entity type is unknown
	Get(ctx context.Context, id string) (*entity.EntityType, error)
}
