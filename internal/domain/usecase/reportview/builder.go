package reportview

import (
	"fmt"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
)

// Report view constants
const (
	// PageSize is the number of map rows per report page
	PageSize = 200
	// EmptyText is rendered when a map table has no rows
	EmptyText = "<h2>No data at the moment, come back later</h2>"
	// EmptyAreaField is the handler field of the empty-state block
	EmptyAreaField = "area_text_custom"
	// EmptyAreaPlugin renders custom text
	EmptyAreaPlugin = "text_custom"
	// AreaTable is the pseudo-table of handlers that don't read data
	AreaTable = "views"
	// RelationshipPrefix prefixes the relationship from a map table to an entity table
	RelationshipPrefix = "migrate_map_"
)

// ReportPath returns the page path of a migration's report
func ReportPath(groupID, migrationID string) string {
	return fmt.Sprintf("admin/structure/migrate/manage/%s/migrations/%s/reports", groupID, migrationID)
}

// BuildMigrationView assembles the report view of a migration.
// destinationType may be nil when the destination is not an entity.
func BuildMigrationView(group *entity.MigrationGroup, migration *entity.Migration, destinationType *entity.EntityType) *entity.ViewSpec {
	groupID := migration.GroupID
	if group != nil && group.ID != "" {
		groupID = group.ID
	}
	mapTable := migration.IDMap.Table

	view := entity.NewViewSpec(
		entity.ReportViewID(groupID, migration.ID),
		group.DisplayLabel()+" - "+migration.Label,
		mapTable,
	)

	page := view.AddDisplay(entity.DisplayPluginPage, migration.Label, entity.DisplayPage)
	page.Path = ReportPath(groupID, migration.ID)
	page.Style = &entity.Style{Type: "table", DefaultRowClass: true}
	page.Pager = &entity.Pager{Type: "full", ItemsPerPage: PageSize, Offset: 0}
	page.Access = &entity.Access{Type: "perm", Permission: core.PermissionViewMigrateReports}

	view.AddHandler(entity.Handler{Type: entity.HandlerField, Table: mapTable, Field: entity.ColumnSourceRowStatus})

	for i, name := range migration.Source.IDs {
		view.AddHandler(entity.Handler{
			Type:  entity.HandlerField,
			Table: mapTable,
			Field: entity.SourceIDColumn(i + 1),
			Label: "Source: " + name,
		})
	}

	if migration.IDMap.Kind.StoresPayload() {
		for _, field := range migration.Source.Fields {
			label := field.Label
			if label == "" {
				label = field.Name
			}
			view.AddHandler(entity.Handler{
				Type:   entity.HandlerField,
				Table:  mapTable,
				Field:  entity.ColumnSourceData,
				Format: "key",
				Key:    field.Name,
				Label:  "Source: " + label,
			})
		}
	}

	if migration.Destination.Kind == entity.DestinationEntityContent {
		if table := destinationType.CanonicalTable(); table != "" {
			view.AddHandler(entity.Handler{
				Type:  entity.HandlerRelationship,
				Table: mapTable,
				Field: RelationshipPrefix + table,
			})
			for i, name := range migration.Destination.IDs {
				view.AddHandler(entity.Handler{
					Type:  entity.HandlerField,
					Table: mapTable,
					Field: entity.DestinationIDColumn(i + 1),
					Label: "Destination: " + name,
				})
			}
		}
	}

	view.AddHandler(entity.Handler{
		Type:      entity.HandlerField,
		Table:     mapTable,
		Field:     entity.ColumnMessages,
		JoinTable: migration.MessageTable(),
	})

	view.AddHandler(entity.Handler{
		Type:    entity.HandlerEmpty,
		Table:   AreaTable,
		Field:   EmptyAreaField,
		Content: EmptyText,
		Plugin:  EmptyAreaPlugin,
		Empty:   true,
	})

	return view
}
