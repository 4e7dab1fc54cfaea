package maptable

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/usecase"
)

// CleanupService drops payload columns from map tables
type CleanupService struct {
	schema    persistence.SchemaInspector
	confirmer coreport.Confirmer
	logger    coreport.Logger
}

// NewCleanupService creates a new map table cleanup service
func NewCleanupService(schema persistence.SchemaInspector, confirmer coreport.Confirmer, logger coreport.Logger) *CleanupService {
	return &CleanupService{
		schema:    schema,
		confirmer: confirmer,
		logger:    logger,
	}
}

var _ usecase.CleanupUseCase = (*CleanupService)(nil)

// Cleanup drops source_data and destination_data from the selected map tables.
// Nothing is altered unless the operator confirms the full table list.
func (s *CleanupService) Cleanup(ctx context.Context, tables []string) (*usecase.CleanupResult, error) {
	selected, err := s.selectTables(ctx, tables)
	if err != nil {
		return nil, err
	}

	result := &usecase.CleanupResult{Tables: selected}
	if len(selected) == 0 {
		s.logger.Error("No table(s) found.", map[string]any{"requested": tables})
		return result, errs.ErrNoTables
	}

	question := fmt.Sprintf("Cleanup will be performed on the following table(s): %s", strings.Join(selected, ", "))
	confirmed, err := s.confirmer.Confirm(ctx, question)
	if err != nil {
		return result, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !confirmed {
		s.logger.Warn("Cleanup cancelled by operator", map[string]any{"tables": selected})
		return result, errs.ErrOperatorAbort
	}

	var failures []error
	for _, table := range selected {
		for _, column := range entity.PayloadColumns {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			dropped, err := s.dropIfPresent(ctx, table, column)
			if err != nil {
				failures = append(failures, err)
				continue
			}
			if dropped {
				result.Dropped = append(result.Dropped, usecase.DroppedColumn{Table: table, Column: column})
			}
		}
	}

	return result, errors.Join(failures...)
}

// selectTables resolves an explicit table list, or every map table when the list is empty
func (s *CleanupService) selectTables(ctx context.Context, tables []string) ([]string, error) {
	if len(tables) == 0 {
		found, err := s.schema.FindTables(ctx, entity.MapTablePrefix)
		if err != nil {
			s.logger.Error("Failed to list map tables", map[string]any{"error": err.Error()})
			return nil, err
		}
		return found, nil
	}

	seen := make(map[string]bool, len(tables))
	var selected []string
	for _, table := range tables {
		table = strings.TrimSpace(table)
		if table == "" || seen[table] {
			continue
		}
		seen[table] = true

		exists, err := s.schema.TableExists(ctx, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			s.logger.Debug("Ignoring unknown table", map[string]any{"table": table})
			continue
		}
		selected = append(selected, table)
	}
	return selected, nil
}

func (s *CleanupService) dropIfPresent(ctx context.Context, table, column string) (bool, error) {
	exists, err := s.schema.ColumnExists(ctx, table, column)
	if err != nil {
		return false, s.reportFailure(errs.NewTableError(table, column, "inspect column", err))
	}
	if !exists {
		return false, nil
	}

	if err := s.schema.DropColumn(ctx, table, column); err != nil {
		return false, s.reportFailure(errs.NewTableError(table, column, "drop column", err))
	}

	s.logger.Success(fmt.Sprintf("Removed %s column from %s.", column, table), map[string]any{
		"table":  table,
		"column": column,
	})
	return true, nil
}

func (s *CleanupService) reportFailure(err error) error {
	fields := map[string]any{"error": err.Error()}
	var tableErr *errs.TableError
	if errors.As(err, &tableErr) {
		fields = tableErr.LogFields()
	}
	s.logger.Error("Map table cleanup step failed", fields)
	return err
}
