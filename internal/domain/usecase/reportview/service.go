package reportview

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

// Service generates report views for migrations
type Service struct {
	registry    persistence.MigrationRegistry
	entityTypes persistence.EntityTypeRepository
	views       persistence.ViewRepository
	schema      persistence.SchemaInspector
	validator   *Validator
	logger      coreport.Logger
}

// NewService creates a new report view generation service
func NewService(
	registry persistence.MigrationRegistry,
	entityTypes persistence.EntityTypeRepository,
	views persistence.ViewRepository,
	schema persistence.SchemaInspector,
	validator *Validator,
	logger coreport.Logger,
) *Service {
	return &Service{
		registry:    registry,
		entityTypes: entityTypes,
		views:       views,
		schema:      schema,
		validator:   validator,
		logger:      logger,
	}
}

var _ usecase.ReportViewUseCase = (*Service)(nil)

// Generate creates the missing report views of the selected migrations, one group at a time
func (s *Service) Generate(ctx context.Context, req usecase.GenerateRequest) (*usecase.GenerateReport, error) {
	migrations, err := s.registry.List(ctx, req.Filter)
	if err != nil {
		s.logger.Error("Failed to list migrations", map[string]any{"error": err.Error()})
		return nil, err
	}

	report := &usecase.GenerateReport{}
	if len(migrations) == 0 {
		s.logger.Error("No migration(s) found.", nil)
		return report, nil
	}

	groupOrder, byGroup := groupMigrations(migrations)
	for _, groupID := range groupOrder {
		group, err := s.loadGroup(ctx, groupID)
		if err != nil {
			return report, err
		}

		for _, migration := range byGroup[groupID] {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			result := s.GenerateOne(ctx, group, migration)
			report.Results = append(report.Results, result)

			if result.Outcome == usecase.OutcomeFailed && !req.ContinueOnFailure {
				return report, fmt.Errorf("migration %s failed its requirements: %s", migration.ID, result.Reason)
			}
		}
	}

	s.logger.Info("Report view generation finished", map[string]any{
		"created": report.Count(usecase.OutcomeCreated),
		"skipped": report.Count(usecase.OutcomeSkipped),
		"invalid": report.Count(usecase.OutcomeInvalid),
		"failed":  report.Count(usecase.OutcomeFailed),
	})
	return report, nil
}

// GenerateOne checks the preconditions of one migration, then builds, validates and saves its view
func (s *Service) GenerateOne(ctx context.Context, group *entity.MigrationGroup, migration *entity.Migration) usecase.GenerateResult {
	groupID := migration.GroupID
	if group != nil {
		groupID = group.ID
	}
	viewID := entity.ReportViewID(groupID, migration.ID)
	result := usecase.GenerateResult{
		GroupID:     groupID,
		MigrationID: migration.ID,
		ViewID:      viewID,
	}

	if !migration.IDMap.Kind.IsRelational() {
		return s.skip(result, errs.NewUnsupportedIDMapError(viewID, string(migration.IDMap.Kind)))
	}

	if err := s.schema.EnsureMapTable(ctx, migration); err != nil {
		return s.fail(result, err)
	}

	exists, err := s.views.Exists(ctx, viewID)
	if err != nil {
		return s.fail(result, err)
	}
	if exists {
		return s.skip(result, errs.NewViewExistsError(viewID))
	}

	var destinationType *entity.EntityType
	if migration.Destination.Kind == entity.DestinationEntityContent {
		destinationType, err = s.entityTypes.Get(ctx, migration.Destination.EntityTypeID())
		if err != nil {
			return s.fail(result, err)
		}
	}

	view := BuildMigrationView(group, migration, destinationType)

	if problems := s.validator.Validate(view); len(problems) > 0 {
		validation := &errs.ValidationError{ViewID: viewID, Errors: problems}
		s.logger.Error(fmt.Sprintf("Failed %s view creation:", viewID), validation.LogFields())
		for _, message := range validation.Messages() {
			s.logger.Error(message, map[string]any{"view_id": viewID})
		}
		result.Outcome = usecase.OutcomeInvalid
		result.Errors = problems
		return result
	}

	if err := s.views.Create(ctx, view); err != nil {
		if errors.Is(err, errs.ErrViewExists) {
			return s.skip(result, errs.NewViewExistsError(viewID))
		}
		return s.fail(result, err)
	}

	s.logger.Success(fmt.Sprintf("Created %s migrate report view.", viewID), map[string]any{
		"view_id":    viewID,
		"base_table": view.BaseTable,
	})
	result.Outcome = usecase.OutcomeCreated
	return result
}

func (s *Service) skip(result usecase.GenerateResult, err error) usecase.GenerateResult {
	fields := map[string]any{"view_id": result.ViewID}
	var skip *errs.SkipError
	if errors.As(err, &skip) {
		fields = skip.LogFields()
	}
	s.logger.Warn(err.Error(), fields)

	result.Outcome = usecase.OutcomeSkipped
	result.Reason = err.Error()
	return result
}

func (s *Service) fail(result usecase.GenerateResult, err error) usecase.GenerateResult {
	s.logger.Error(fmt.Sprintf("Failed %s view creation", result.ViewID), map[string]any{
		"view_id":    result.ViewID,
		"migration":  result.MigrationID,
		"error":      err.Error(),
		"error_code": errs.ErrorCode(err),
	})

	result.Outcome = usecase.OutcomeFailed
	result.Reason = err.Error()
	return result
}

// loadGroup resolves a group, falling back to a group labeled with its ID when it isn't registered
func (s *Service) loadGroup(ctx context.Context, groupID string) (*entity.MigrationGroup, error) {
	group, err := s.registry.Group(ctx, groupID)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, errs.ErrGroupNotFound) {
		return nil, err
	}
	if groupID == entity.DefaultGroupID {
		return entity.DefaultGroup(), nil
	}
	s.logger.Debug("Migration group is not registered, using its ID", map[string]any{"group": groupID})
	return &entity.MigrationGroup{ID: groupID, Label: groupID}, nil
}

// groupMigrations buckets migrations by group, keeping first-seen group order
func groupMigrations(migrations []*entity.Migration) ([]string, map[string][]*entity.Migration) {
	var order []string
	byGroup := make(map[string][]*entity.Migration)
	for _, m := range migrations {
		groupID := m.GroupID
		if groupID == "" {
			groupID = entity.DefaultGroupID
		}
		if _, ok := byGroup[groupID]; !ok {
			order = append(order, groupID)
		}
		byGroup[groupID] = append(byGroup[groupID], m)
	}
	return order, byGroup
}
