package dto

import "github.com/amirhossein-jamali/migrate-views/internal/domain/entity"

// OperationResponse is one navigational action on a migration
type OperationResponse struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Route  string `json:"route"`
	Path   string `json:"path"`
	Weight int    `json:"weight"`
}

// StatusResponse summarizes a map table by row status
type StatusResponse struct {
	Total       int64 `json:"total"`
	Imported    int64 `json:"imported"`
	NeedsUpdate int64 `json:"needs_update"`
	Ignored     int64 `json:"ignored"`
	Failed      int64 `json:"failed"`
}

// MigrationRowResponse is one row of the migration list
type MigrationRowResponse struct {
	ID         string              `json:"id"`
	Group      string              `json:"group"`
	Label      string              `json:"label"`
	MapTable   string              `json:"map_table,omitempty"`
	Status     StatusResponse      `json:"status"`
	Operations []OperationResponse `json:"operations"`
}

// MigrationListResponse is the body of GET /migrations
type MigrationListResponse struct {
	Migrations []MigrationRowResponse `json:"migrations"`
}

// NewMigrationListResponse converts migration rows to their response form
func NewMigrationListResponse(rows []entity.MigrationRow) MigrationListResponse {
	resp := MigrationListResponse{Migrations: make([]MigrationRowResponse, 0, len(rows))}
	for _, row := range rows {
		operations := make([]OperationResponse, 0, len(row.Operations))
		for _, op := range row.Operations {
			operations = append(operations, OperationResponse(op))
		}
		resp.Migrations = append(resp.Migrations, MigrationRowResponse{
			ID:         row.MigrationID,
			Group:      row.GroupID,
			Label:      row.Label,
			MapTable:   row.MapTable,
			Status:     StatusResponse(row.Status),
			Operations: operations,
		})
	}
	return resp
}
