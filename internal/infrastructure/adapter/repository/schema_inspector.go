package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// slowDDLThreshold is the duration above which schema changes are reported
const slowDDLThreshold = 5 * time.Second

// SchemaInspector implements persistence.SchemaInspector with the GORM migrator
type SchemaInspector struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *database.ErrorMapper
	metrics     *database.MetricsCollector
	retryConfig database.RetryConfig
}

// NewSchemaInspector creates a new SchemaInspector instance
func NewSchemaInspector(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *SchemaInspector {
	return &SchemaInspector{
		db:          db,
		logger:      logger,
		errorMapper: database.NewErrorMapper(),
		metrics:     database.NewMetricsCollector(logger, timeProvider, slowDDLThreshold),
		retryConfig: database.DefaultRetryConfig(),
	}
}

var _ persistence.SchemaInspector = (*SchemaInspector)(nil)

// TableExists checks if a table exists
func (s *SchemaInspector) TableExists(ctx context.Context, table string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.db.WithContext(ctx).Migrator().HasTable(table), nil
}

// FindTables returns the tables whose names start with prefix, sorted
func (s *SchemaInspector) FindTables(ctx context.Context, prefix string) ([]string, error) {
	tables, err := s.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, s.errorMapper.MapError(err, "list tables")
	}

	var matched []string
	for _, table := range tables {
		if strings.HasPrefix(table, prefix) {
			matched = append(matched, table)
		}
	}
	slices.Sort(matched)
	return matched, nil
}

// ColumnExists checks if a table has a column
func (s *SchemaInspector) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	if err := checkIdentifiers(table, column); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.db.WithContext(ctx).Migrator().HasColumn(table, column), nil
}

// DropColumn removes a column from a table, retrying on lock contention
func (s *SchemaInspector) DropColumn(ctx context.Context, table, column string) error {
	if err := checkIdentifiers(table, column); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	err := database.RetryOnTransientError(ctx, s.retryConfig, func() error {
		_, err := s.metrics.MeasureQuery(ctx, "drop column", table, func() (int64, error) {
			result := db.Exec("ALTER TABLE ? DROP COLUMN ?", clause.Table{Name: table}, clause.Column{Name: column})
			return result.RowsAffected, result.Error
		})
		return err
	}, s.logger)
	if err != nil {
		return s.errorMapper.MapError(err, "drop column")
	}
	return nil
}

// EnsureMapTable creates the map and message tables of a migration when the map table is missing
func (s *SchemaInspector) EnsureMapTable(ctx context.Context, migration *entity.Migration) error {
	table := migration.IDMap.Table
	messages := migration.MessageTable()
	if err := checkIdentifiers(table, messages); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrMapTableUnavailable, err)
	}

	db := s.db.WithContext(ctx)
	if db.Migrator().HasTable(table) {
		return nil
	}

	_, err := s.metrics.MeasureQuery(ctx, "create map table", table, func() (int64, error) {
		if err := db.Exec(s.mapTableDDL(migration)).Error; err != nil {
			return 0, err
		}
		return 0, db.Table(messages).AutoMigrate(&model.MapMessage{})
	})
	if err != nil {
		s.logger.Error("Failed to create map table", map[string]any{
			"migration": migration.ID,
			"table":     table,
			"error":     err.Error(),
		})
		return fmt.Errorf("%w: %s: %v", errs.ErrMapTableUnavailable, table, err)
	}

	s.logger.Info("Created map table", map[string]any{
		"migration":     migration.ID,
		"table":         table,
		"message_table": messages,
	})
	return nil
}

// mapTableDDL renders the CREATE TABLE statement of a migration's map table
func (s *SchemaInspector) mapTableDDL(migration *entity.Migration) string {
	quote := s.db.Statement.Quote

	columns := []string{quote(entity.ColumnSourceIDsHash) + " VARCHAR(64) NOT NULL"}
	for i := range migration.Source.IDs {
		columns = append(columns, quote(entity.SourceIDColumn(i+1))+" VARCHAR(255)")
	}
	for i := range migration.Destination.IDs {
		columns = append(columns, quote(entity.DestinationIDColumn(i+1))+" VARCHAR(255)")
	}
	columns = append(columns,
		quote(entity.ColumnSourceRowStatus)+" SMALLINT NOT NULL DEFAULT 0",
		quote(entity.ColumnRollbackAction)+" SMALLINT NOT NULL DEFAULT 0",
		quote(entity.ColumnLastImported)+" BIGINT NOT NULL DEFAULT 0",
		quote(entity.ColumnHash)+" VARCHAR(64)",
	)
	if migration.IDMap.Kind.StoresPayload() {
		columns = append(columns,
			quote(entity.ColumnSourceData)+" TEXT",
			quote(entity.ColumnDestinationData)+" TEXT",
		)
	}
	columns = append(columns, "PRIMARY KEY ("+quote(entity.ColumnSourceIDsHash)+")")

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(migration.IDMap.Table), strings.Join(columns, ", "))
}
