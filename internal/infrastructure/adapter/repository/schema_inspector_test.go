package repository

import (
	"context"
	"testing"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMapMigration(t *testing.T, id string, kind entity.IDMapKind) *entity.Migration {
	t.Helper()
	migration, err := entity.NewMigration(entity.Migration{
		ID:          id,
		GroupID:     "content",
		Source:      entity.Source{Plugin: "d7_node", IDs: []string{"nid", "language"}},
		Destination: entity.Destination{Plugin: "entity:node", IDs: []string{"nid"}},
		IDMap:       entity.IDMap{Kind: kind},
	})
	require.NoError(t, err)
	return migration
}

func newInspector(t *testing.T) (*SchemaInspector, *database.TestDBManager) {
	t.Helper()
	testDB := database.NewTestDBManager(t)
	return NewSchemaInspector(testDB.Manager.DB(), testDB.Logger, testDB.TimeProvider), testDB
}

func TestSchemaInspector_EnsureMapTable(t *testing.T) {
	ctx := context.Background()

	t.Run("should create map and message tables", func(t *testing.T) {
		// Arrange
		inspector, _ := newInspector(t)
		migration := newMapMigration(t, "articles", entity.IDMapSQLData)

		// Act
		err := inspector.EnsureMapTable(ctx, migration)

		// Assert
		require.NoError(t, err)
		for _, column := range []string{"source_ids_hash", "sourceid1", "sourceid2", "destid1", "source_row_status", "source_data", "destination_data"} {
			exists, err := inspector.ColumnExists(ctx, "migrate_map_articles", column)
			require.NoError(t, err)
			assert.True(t, exists, column)
		}
		exists, err := inspector.TableExists(ctx, "migrate_message_articles")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("should omit payload columns for plain maps", func(t *testing.T) {
		// Arrange
		inspector, _ := newInspector(t)
		migration := newMapMigration(t, "articles", entity.IDMapSQL)

		// Act
		err := inspector.EnsureMapTable(ctx, migration)

		// Assert
		require.NoError(t, err)
		exists, err := inspector.ColumnExists(ctx, "migrate_map_articles", "source_data")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("should leave an existing table untouched", func(t *testing.T) {
		// Arrange
		inspector, testDB := newInspector(t)
		migration := newMapMigration(t, "articles", entity.IDMapSQL)
		require.NoError(t, inspector.EnsureMapTable(ctx, migration))
		testDB.Exec(t, "INSERT INTO migrate_map_articles (source_ids_hash, sourceid1) VALUES (?, ?)", "h1", "1")

		// Act
		err := inspector.EnsureMapTable(ctx, migration)

		// Assert
		require.NoError(t, err)
		var count int64
		require.NoError(t, testDB.Manager.DB().Table("migrate_map_articles").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("should reject unsafe table names", func(t *testing.T) {
		// Arrange
		inspector, _ := newInspector(t)
		migration := newMapMigration(t, "articles", entity.IDMapSQL)
		migration.IDMap.Table = "migrate_map_articles; DROP TABLE report_views"

		// Act
		err := inspector.EnsureMapTable(ctx, migration)

		// Assert
		assert.ErrorIs(t, err, errs.ErrMapTableUnavailable)
		assert.ErrorIs(t, err, errs.ErrInvalidIdentifier)
	})
}

func TestSchemaInspector_FindTables(t *testing.T) {
	// Arrange
	ctx := context.Background()
	inspector, _ := newInspector(t)
	for _, id := range []string{"users", "articles", "files"} {
		require.NoError(t, inspector.EnsureMapTable(ctx, newMapMigration(t, id, entity.IDMapSQL)))
	}

	// Act
	tables, err := inspector.FindTables(ctx, entity.MapTablePrefix)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"migrate_map_articles", "migrate_map_files", "migrate_map_users"}, tables)
}

func TestSchemaInspector_DropColumn(t *testing.T) {
	ctx := context.Background()

	t.Run("should drop a payload column", func(t *testing.T) {
		// Arrange
		inspector, _ := newInspector(t)
		require.NoError(t, inspector.EnsureMapTable(ctx, newMapMigration(t, "articles", entity.IDMapSQLData)))

		// Act
		err := inspector.DropColumn(ctx, "migrate_map_articles", "source_data")

		// Assert
		require.NoError(t, err)
		exists, err := inspector.ColumnExists(ctx, "migrate_map_articles", "source_data")
		require.NoError(t, err)
		assert.False(t, exists)
		exists, err = inspector.ColumnExists(ctx, "migrate_map_articles", "destination_data")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("should reject unsafe identifiers", func(t *testing.T) {
		// Arrange
		inspector, _ := newInspector(t)

		// Act
		err := inspector.DropColumn(ctx, "migrate_map_articles", "source_data; --")

		// Assert
		assert.ErrorIs(t, err, errs.ErrInvalidIdentifier)
	})
}
