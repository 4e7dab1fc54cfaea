package persistence

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
)

// ViewRepository stores report view definitions
type ViewRepository interface {
	// Exists checks if a view with the given ID is registered
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Exists(ctx context.Context, id string) (bool, error)

	// Get loads a view by ID
	//
	// Possible errors:
	// - ErrViewNotFound: If the view doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Get(ctx context.Context, id string) (*entity.ViewSpec, error)

	// Create saves a new view; an existing view is never overwritten
	//
	// Possible errors:
	// - ErrViewExists: If a view with the same ID already exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, view *entity.ViewSpec) error

	// List returns every registered view ordered by ID
	List(ctx context.Context) ([]*entity.ViewSpec, error)
}
