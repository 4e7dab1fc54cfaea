package usecase

import "context"

// CleanupResult lists what a cleanup run removed
type CleanupResult struct {
	Tables  []string
	Dropped []DroppedColumn
}

// DroppedColumn is one removed map table column
type DroppedColumn struct {
	Table  string
	Column string
}

// CleanupUseCase prunes payload columns from map tables
type CleanupUseCase interface {
	// Cleanup drops source_data and destination_data from the given tables,
	// or from every map table when tables is empty, after operator confirmation
	Cleanup(ctx context.Context, tables []string) (*CleanupResult, error)
}
