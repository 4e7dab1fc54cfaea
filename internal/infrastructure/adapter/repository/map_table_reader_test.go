package repository

import (
	"context"
	"testing"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedArticles(t *testing.T) (*MapTableReader, *database.TestDBManager) {
	t.Helper()
	ctx := context.Background()
	testDB := database.NewTestDBManager(t)
	inspector := NewSchemaInspector(testDB.Manager.DB(), testDB.Logger, testDB.TimeProvider)
	require.NoError(t, inspector.EnsureMapTable(ctx, newMapMigration(t, "articles", entity.IDMapSQLData)))

	insert := "INSERT INTO migrate_map_articles (source_ids_hash, sourceid1, sourceid2, destid1, source_row_status, source_data) VALUES (?, ?, ?, ?, ?, ?)"
	testDB.Exec(t, insert, "c", "3", "en", "30", 0, `{"title":"Third"}`)
	testDB.Exec(t, insert, "a", "1", "en", "10", 0, `{"title":"First"}`)
	testDB.Exec(t, insert, "b", "2", "fr", nil, 3, `{"title":"Second"}`)
	testDB.Exec(t, "INSERT INTO migrate_message_articles (source_ids_hash, level, message) VALUES (?, ?, ?)", "b", 1, "Missing author")
	testDB.Exec(t, "INSERT INTO migrate_message_articles (source_ids_hash, level, message) VALUES (?, ?, ?)", "b", 2, "Body too long")

	return NewMapTableReader(testDB.Manager.DB(), testDB.Logger, testDB.TimeProvider), testDB
}

func TestMapTableReader_Rows(t *testing.T) {
	ctx := context.Background()

	t.Run("should page rows in source_ids_hash order with messages", func(t *testing.T) {
		// Arrange
		reader, _ := seedArticles(t)
		query := persistence.ReportQuery{
			Table:        "migrate_map_articles",
			Columns:      []string{"source_row_status", "sourceid1", "destid1"},
			MessageTable: "migrate_message_articles",
			Limit:        2,
			Offset:       1,
		}

		// Act
		records, total, err := reader.Rows(ctx, query)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, records, 2)
		assert.Equal(t, "2", asString(records[0].Values["sourceid1"]))
		assert.Nil(t, records[0].Values["destid1"])
		assert.Equal(t, []string{"Missing author", "Body too long"}, records[0].Messages)
		assert.Equal(t, "3", asString(records[1].Values["sourceid1"]))
		assert.Empty(t, records[1].Messages)
	})

	t.Run("should read every row without a limit", func(t *testing.T) {
		// Arrange
		reader, _ := seedArticles(t)

		// Act
		records, total, err := reader.Rows(ctx, persistence.ReportQuery{
			Table:   "migrate_map_articles",
			Columns: []string{"sourceid1"},
			Limit:   -1,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, records, 3)
		assert.Equal(t, "1", asString(records[0].Values["sourceid1"]))
	})

	t.Run("should ignore a missing message table", func(t *testing.T) {
		// Arrange
		reader, _ := seedArticles(t)

		// Act
		records, _, err := reader.Rows(ctx, persistence.ReportQuery{
			Table:        "migrate_map_articles",
			Columns:      []string{"sourceid1"},
			MessageTable: "migrate_message_missing",
			Limit:        10,
		})

		// Assert
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("should report a missing map table", func(t *testing.T) {
		// Arrange
		reader, _ := seedArticles(t)

		// Act
		_, _, err := reader.Rows(ctx, persistence.ReportQuery{Table: "migrate_map_missing", Limit: 10})

		// Assert
		assert.ErrorIs(t, err, errs.ErrTableNotFound)
	})

	t.Run("should reject unsafe columns", func(t *testing.T) {
		// Arrange
		reader, _ := seedArticles(t)

		// Act
		_, _, err := reader.Rows(ctx, persistence.ReportQuery{
			Table:   "migrate_map_articles",
			Columns: []string{"sourceid1, (SELECT 1)"},
		})

		// Assert
		assert.ErrorIs(t, err, errs.ErrInvalidIdentifier)
	})
}

func TestMapTableReader_StatusCounts(t *testing.T) {
	// Arrange
	reader, _ := seedArticles(t)

	// Act
	counts, err := reader.StatusCounts(context.Background(), "migrate_map_articles")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCounts{Total: 3, Imported: 2, Failed: 1}, counts)
}
