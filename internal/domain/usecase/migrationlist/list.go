package migrationlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/usecase"
)

// Operation keys
const (
	OperationViewDetails = "view-details"
	OperationExecute     = "execute"
)

// Service builds the administrative migration list
type Service struct {
	registry persistence.MigrationRegistry
	views    persistence.ViewRepository
	reader   persistence.MapTableReader
	schema   persistence.SchemaInspector
	logger   coreport.Logger
}

// NewService creates a new migration list service
func NewService(
	registry persistence.MigrationRegistry,
	views persistence.ViewRepository,
	reader persistence.MapTableReader,
	schema persistence.SchemaInspector,
	logger coreport.Logger,
) *Service {
	return &Service{
		registry: registry,
		views:    views,
		reader:   reader,
		schema:   schema,
		logger:   logger,
	}
}

var _ usecase.MigrationListUseCase = (*Service)(nil)

// Rows returns one row per selected migration with status counts and permitted operations
func (s *Service) Rows(ctx context.Context, filter persistence.MigrationFilter, access coreport.AccessChecker) ([]entity.MigrationRow, error) {
	migrations, err := s.registry.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]entity.MigrationRow, 0, len(migrations))
	for _, migration := range migrations {
		row := entity.MigrationRow{
			MigrationID: migration.ID,
			GroupID:     migration.GroupID,
			Label:       migration.Label,
			MapTable:    migration.IDMap.Table,
		}

		if migration.IDMap.Kind.IsRelational() {
			row.Status, err = s.statusCounts(ctx, migration.IDMap.Table)
			if err != nil {
				return nil, err
			}
		}

		row.Operations, err = s.Operations(ctx, migration, access)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Operations derives the navigation entries of a migration from the view naming convention
func (s *Service) Operations(ctx context.Context, migration *entity.Migration, access coreport.AccessChecker) ([]entity.Operation, error) {
	var operations []entity.Operation

	viewID := migration.ViewID()
	view, err := s.views.Get(ctx, viewID)
	switch {
	case err == nil:
		if display, ok := view.Display(entity.DisplayPage); ok && view.Status && accessAllows(display.Access, access) {
			operations = append(operations, entity.Operation{
				Key:    OperationViewDetails,
				Title:  "View details",
				Route:  fmt.Sprintf("view.%s.%s", viewID, entity.DisplayPage),
				Path:   "/" + display.Path,
				Weight: 10,
			})
		}
	case errors.Is(err, errs.ErrViewNotFound):
	default:
		return nil, err
	}

	if access != nil && access.HasPermission(coreport.PermissionAdministerMigration) {
		operations = append(operations, entity.Operation{
			Key:    OperationExecute,
			Title:  "Execute",
			Route:  "migrate_tools.execute",
			Path:   fmt.Sprintf("/execute/%s/%s", migration.GroupID, migration.ID),
			Weight: 20,
		})
	}

	return operations, nil
}

func (s *Service) statusCounts(ctx context.Context, table string) (entity.StatusCounts, error) {
	exists, err := s.schema.TableExists(ctx, table)
	if err != nil || !exists {
		return entity.StatusCounts{}, err
	}
	return s.reader.StatusCounts(ctx, table)
}

func accessAllows(rule *entity.Access, access coreport.AccessChecker) bool {
	if rule == nil {
		return true
	}
	if access == nil {
		return rule.Allows(func(string) bool { return false })
	}
	return rule.Allows(access.HasPermission)
}
