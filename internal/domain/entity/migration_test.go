package entity

import (
	"strings"
	"testing"

	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigration(t *testing.T) {
	t.Run("Defaults are filled in", func(t *testing.T) {
		migration, err := NewMigration(Migration{
			ID:     "users",
			Source: Source{IDs: []string{"uid"}},
		})

		require.NoError(t, err)
		assert.Equal(t, DefaultGroupID, migration.GroupID)
		assert.Equal(t, "users", migration.Label)
		assert.Equal(t, DestinationOther, migration.Destination.Kind)
		assert.Equal(t, IDMapSQL, migration.IDMap.Kind)
		assert.Equal(t, "migrate_map_users", migration.IDMap.Table)
	})

	t.Run("Entity destinations are content destinations", func(t *testing.T) {
		migration, err := NewMigration(Migration{
			ID:          "articles",
			Source:      Source{IDs: []string{"nid"}},
			Destination: Destination{Plugin: "entity:node"},
		})

		require.NoError(t, err)
		assert.Equal(t, DestinationEntityContent, migration.Destination.Kind)
		assert.Equal(t, "node", migration.Destination.EntityTypeID())
	})

	t.Run("Non-relational maps have no table", func(t *testing.T) {
		migration, err := NewMigration(Migration{
			ID:     "feeds",
			Source: Source{IDs: []string{"url"}},
			IDMap:  IDMap{Kind: IDMapOther},
		})

		require.NoError(t, err)
		assert.Empty(t, migration.IDMap.Table)
	})

	t.Run("Explicit map table is kept", func(t *testing.T) {
		migration, err := NewMigration(Migration{
			ID:     "users",
			Source: Source{IDs: []string{"uid"}},
			IDMap:  IDMap{Kind: IDMapSQLData, Table: "migrate_map_legacy_users"},
		})

		require.NoError(t, err)
		assert.Equal(t, "migrate_map_legacy_users", migration.IDMap.Table)
	})

	t.Run("Invalid definitions", func(t *testing.T) {
		testCases := map[string]Migration{
			"missing id":               {Source: Source{IDs: []string{"id"}}},
			"missing source ids":       {ID: "users"},
			"unknown id map kind":      {ID: "users", Source: Source{IDs: []string{"id"}}, IDMap: IDMap{Kind: "redis"}},
			"unknown destination kind": {ID: "users", Source: Source{IDs: []string{"id"}}, Destination: Destination{Kind: "file"}},
		}

		for name, tc := range testCases {
			t.Run(name, func(t *testing.T) {
				migration, err := NewMigration(tc)
				assert.ErrorIs(t, err, errs.ErrInvalidDefinition)
				assert.Nil(t, migration)
			})
		}
	})
}

func TestMapTableName(t *testing.T) {
	assert.Equal(t, "migrate_map_users", MapTableName("users"))
	assert.Equal(t, "migrate_map_d7_node__article", MapTableName("d7_node:Article"))

	long := MapTableName(strings.Repeat("very_long_migration_name_", 4))
	assert.Len(t, long, 63)
	assert.True(t, strings.HasPrefix(long, "migrate_map_very_long_migration_name_"))
	assert.NotEqual(t, long, MapTableName(strings.Repeat("very_long_migration_name_", 5)))
}

func TestMigration_Names(t *testing.T) {
	migration := &Migration{ID: "d7_user", GroupID: "legacy", Tags: []string{"Drupal 7", "Content"}}

	assert.Equal(t, "legacy_d7_user", migration.ViewID())
	assert.Equal(t, "migrate_message_d7_user", migration.MessageTable())
	assert.Equal(t, "default_d7_user", ReportViewID("", "d7_user"))
	assert.Equal(t, "content_d7_node__article", ReportViewID("content", "d7_node:article"))
	assert.Equal(t, "legacy_upgrade_d7_user", ReportViewID("Legacy", "Upgrade_d7_user"))
	assert.True(t, migration.HasTag("Content"))
	assert.False(t, migration.HasTag("content"))
}

func TestDestination_EntityTypeID(t *testing.T) {
	assert.Equal(t, "taxonomy_term", Destination{Plugin: "entity:taxonomy_term"}.EntityTypeID())
	assert.Equal(t, "", Destination{Plugin: "config"}.EntityTypeID())
	assert.Equal(t, "", Destination{Plugin: "table:node"}.EntityTypeID())
}

func TestMigrationGroup_DisplayLabel(t *testing.T) {
	var missing *MigrationGroup
	assert.Equal(t, "Default", missing.DisplayLabel())
	assert.Equal(t, "Default", (&MigrationGroup{ID: "legacy"}).DisplayLabel())
	assert.Equal(t, "Legacy site", (&MigrationGroup{ID: "legacy", Label: "Legacy site"}).DisplayLabel())
}

func TestStatusCounts_Add(t *testing.T) {
	var counts StatusCounts
	counts.Add(RowStatusImported, 4)
	counts.Add(RowStatusFailed, 1)
	counts.Add(RowStatus(9), 2)

	assert.Equal(t, StatusCounts{Total: 7, Imported: 4, Failed: 1}, counts)
	assert.Equal(t, "Needs update", RowStatusNeedsUpdate.String())
	assert.Equal(t, "Unknown", RowStatus(9).String())
}
