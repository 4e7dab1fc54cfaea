package entity

// Operation is a navigational action offered on a migration list row
type Operation struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Route  string `json:"route"`
	Path   string `json:"path"`
	Weight int    `json:"weight"`
}

// MigrationRow is one row of the administrative migration list
type MigrationRow struct {
	MigrationID string       `json:"migration_id"`
	GroupID     string       `json:"group_id"`
	Label       string       `json:"label"`
	MapTable    string       `json:"map_table,omitempty"`
	Status      StatusCounts `json:"status"`
	Operations  []Operation  `json:"operations"`
}

// EntityType is the storage metadata of a destination entity type
type EntityType struct {
	ID        string
	BaseTable string
	DataTable string
}

// CanonicalTable prefers the dedicated data table over the base table
func (e *EntityType) CanonicalTable() string {
	if e == nil {
		return ""
	}
	if e.DataTable != "" {
		return e.DataTable
	}
	return e.BaseTable
}
