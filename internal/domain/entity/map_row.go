package entity

import "strconv"

// RowStatus is the import status of a row in a map table
type RowStatus int

// Row statuses as written by the migration runner
const (
	RowStatusImported RowStatus = iota
	RowStatusNeedsUpdate
	RowStatusIgnored
	RowStatusFailed
)

// String returns the human-readable status label
func (s RowStatus) String() string {
	switch s {
	case RowStatusImported:
		return "Imported"
	case RowStatusNeedsUpdate:
		return "Needs update"
	case RowStatusIgnored:
		return "Ignored"
	case RowStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Map table column names
const (
	ColumnSourceIDsHash   = "source_ids_hash"
	ColumnSourceRowStatus = "source_row_status"
	ColumnRollbackAction  = "rollback_action"
	ColumnLastImported    = "last_imported"
	ColumnHash            = "hash"
	ColumnSourceData      = "source_data"
	ColumnDestinationData = "destination_data"
	ColumnMessages        = "migrate_messages"
)

// PayloadColumns are the optional map table columns removed by cleanup, in drop order
var PayloadColumns = []string{ColumnSourceData, ColumnDestinationData}

// SourceIDColumn returns the map table column of the n-th source key (1-indexed)
func SourceIDColumn(n int) string {
	return "sourceid" + strconv.Itoa(n)
}

// DestinationIDColumn returns the map table column of the n-th destination key (1-indexed)
func DestinationIDColumn(n int) string {
	return "destid" + strconv.Itoa(n)
}

// StatusCounts summarizes the rows of a map table
type StatusCounts struct {
	Total       int64
	Imported    int64
	NeedsUpdate int64
	Ignored     int64
	Failed      int64
}

// Add counts n rows with the given status
func (c *StatusCounts) Add(status RowStatus, n int64) {
	c.Total += n
	switch status {
	case RowStatusImported:
		c.Imported += n
	case RowStatusNeedsUpdate:
		c.NeedsUpdate += n
	case RowStatusIgnored:
		c.Ignored += n
	case RowStatusFailed:
		c.Failed += n
	}
}

// ReportRow is one rendered row of a report, keyed by handler id
type ReportRow map[string]any

// ReportColumn is a rendered column header
type ReportColumn struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ReportPage is one page of a report view's rows
type ReportPage struct {
	ViewID    string         `json:"view_id"`
	Title     string         `json:"title"`
	Columns   []ReportColumn `json:"columns"`
	Rows      []ReportRow    `json:"rows"`
	Page      int            `json:"page"`
	PageSize  int            `json:"page_size"`
	Total     int64          `json:"total"`
	EmptyText string         `json:"empty_text,omitempty"`
}
