package persistence

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
)

// SchemaInspector inspects and alters the relational schema holding map tables
type SchemaInspector interface {
	// TableExists checks if a table exists
	TableExists(ctx context.Context, table string) (bool, error)

	// FindTables returns the tables whose names start with prefix, sorted
	FindTables(ctx context.Context, prefix string) ([]string, error)

	// ColumnExists checks if a table has a column
	ColumnExists(ctx context.Context, table, column string) (bool, error)

	// DropColumn removes a column from a table
	//
	// Possible errors:
	// - ErrInvalidIdentifier: If table or column is not a safe identifier
	DropColumn(ctx context.Context, table, column string) error

	// EnsureMapTable creates the map table of a migration when it is missing
	//
	// Possible errors:
	// - ErrMapTableUnavailable: If the table can't be reached or created
	EnsureMapTable(ctx context.Context, migration *entity.Migration) error
}

// ReportQuery describes one page of a report over a map table
type ReportQuery struct {
	Table        string
	Columns      []string
	MessageTable string
	Limit        int
	Offset       int
}

// MapRecord is one raw map table row with its joined messages
type MapRecord struct {
	Values   map[string]any
	Messages []string
}

// MapTableReader reads rows and statistics out of map tables
type MapTableReader interface {
	// Rows returns the rows of one report page and the total row count
	Rows(ctx context.Context, query ReportQuery) ([]MapRecord, int64, error)

	// StatusCounts summarizes a map table by row status
	StatusCounts(ctx context.Context, table string) (entity.StatusCounts, error)
}
