package usecase

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
)

// MigrationListUseCase builds the administrative migration list
type MigrationListUseCase interface {
	// Rows returns one row per selected migration with the operations the caller may use
	Rows(ctx context.Context, filter persistence.MigrationFilter, access core.AccessChecker) ([]entity.MigrationRow, error)

	// Operations returns the operations available on one migration
	Operations(ctx context.Context, migration *entity.Migration, access core.AccessChecker) ([]entity.Operation, error)
}
