package reportview

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	ports "github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/mocks/port/core"
	"github.com/amirhossein-jamali/migrate-views/mocks/port/persistence"
)

func TestReportService_Page(t *testing.T) {
	ctx := context.Background()
	group := &entity.MigrationGroup{ID: "news", Label: "News"}
	nodeType := &entity.EntityType{ID: "node", BaseTable: "node", DataTable: "node_field_data"}

	t.Run("should read one page of map rows through the view's handlers", func(t *testing.T) {
		// Arrange
		views := new(persistence.MockViewRepository)
		reader := new(persistence.MockMapTableReader)
		logger := new(core.MockLogger).AllowAll()

		view := BuildMigrationView(group, newArticleMigration(t, entity.IDMapSQLData), nodeType)
		views.On("Get", ctx, "news_articles").Return(view, nil)

		expectedQuery := ports.ReportQuery{
			Table:        "migrate_map_articles",
			Columns:      []string{"source_row_status", "sourceid1", "sourceid2", "source_data", "destid1"},
			MessageTable: "migrate_message_articles",
			Limit:        200,
			Offset:       400,
		}
		reader.On("Rows", ctx, expectedQuery).Return([]ports.MapRecord{
			{
				Values: map[string]any{
					"source_row_status": int64(3),
					"sourceid1":         []byte("17"),
					"sourceid2":         "en",
					"source_data":       `{"title":"Hello","body":"World"}`,
					"destid1":           int64(42),
				},
				Messages: []string{"Missing author", "Invalid date"},
			},
		}, int64(401), nil)

		service := NewReportService(views, reader, logger)

		// Act
		page, err := service.Page(ctx, "news_articles", 2)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Articles", page.Title)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 200, page.PageSize)
		assert.Equal(t, int64(401), page.Total)
		assert.Empty(t, page.EmptyText)

		require.Len(t, page.Columns, 7)
		assert.Equal(t, entity.ReportColumn{ID: "source_row_status", Label: "Status"}, page.Columns[0])
		assert.Equal(t, entity.ReportColumn{ID: "migrate_messages", Label: "Messages"}, page.Columns[6])

		require.Len(t, page.Rows, 1)
		row := page.Rows[0]
		assert.Equal(t, "Failed", row["source_row_status"])
		assert.Equal(t, "17", row["sourceid1"])
		assert.Equal(t, "en", row["sourceid2"])
		assert.Equal(t, "Hello", row["source_data"])
		assert.Equal(t, "World", row["source_data_1"])
		assert.Equal(t, int64(42), row["destid1"])
		assert.Equal(t, "Missing author\nInvalid date", row["migrate_messages"])

		views.AssertExpectations(t)
		reader.AssertExpectations(t)
	})

	t.Run("should render the empty text when the map table has no rows", func(t *testing.T) {
		// Arrange
		views := new(persistence.MockViewRepository)
		reader := new(persistence.MockMapTableReader)
		logger := new(core.MockLogger).AllowAll()

		view := BuildMigrationView(group, newArticleMigration(t, entity.IDMapSQL), nodeType)
		views.On("Get", ctx, "news_articles").Return(view, nil)
		reader.On("Rows", ctx, mock.AnythingOfType("persistence.ReportQuery")).Return(nil, int64(0), nil)

		service := NewReportService(views, reader, logger)

		// Act
		page, err := service.Page(ctx, "news_articles", -3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, page.Page)
		assert.Empty(t, page.Rows)
		assert.Equal(t, EmptyText, page.EmptyText)
	})

	t.Run("should read every row when the pager is unlimited", func(t *testing.T) {
		// Arrange
		views := new(persistence.MockViewRepository)
		reader := new(persistence.MockMapTableReader)
		logger := new(core.MockLogger).AllowAll()

		view := BuildMigrationView(group, newArticleMigration(t, entity.IDMapSQL), nodeType)
		page1, _ := view.Display(entity.DisplayPage)
		page1.Pager = &entity.Pager{Type: "none", ItemsPerPage: 0, Offset: 5}
		views.On("Get", ctx, "news_articles").Return(view, nil)

		var captured ports.ReportQuery
		reader.On("Rows", ctx, mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(1).(ports.ReportQuery) }).
			Return(nil, int64(0), nil)

		service := NewReportService(views, reader, logger)

		// Act
		_, err := service.Page(ctx, "news_articles", 3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, -1, captured.Limit)
		assert.Equal(t, 5, captured.Offset)
	})

	t.Run("should return view lookup errors", func(t *testing.T) {
		// Arrange
		views := new(persistence.MockViewRepository)
		reader := new(persistence.MockMapTableReader)
		views.On("Get", ctx, "missing").Return(nil, errs.ErrViewNotFound)

		service := NewReportService(views, reader, new(core.MockLogger))

		// Act
		page, err := service.Page(ctx, "missing", 0)

		// Assert
		assert.Nil(t, page)
		assert.ErrorIs(t, err, errs.ErrViewNotFound)
		reader.AssertNotCalled(t, "Rows", mock.Anything, mock.Anything)
	})

	t.Run("should reject pages whose offset overflows", func(t *testing.T) {
		// Arrange
		views := new(persistence.MockViewRepository)
		reader := new(persistence.MockMapTableReader)
		view := BuildMigrationView(group, newArticleMigration(t, entity.IDMapSQL), nodeType)
		views.On("Get", ctx, "news_articles").Return(view, nil)

		service := NewReportService(views, reader, new(core.MockLogger))

		// Act
		page, err := service.Page(ctx, "news_articles", math.MaxInt/PageSize+1)

		// Assert
		assert.Nil(t, page)
		assert.ErrorIs(t, err, errs.ErrInvalidPage)
		reader.AssertNotCalled(t, "Rows", mock.Anything, mock.Anything)
	})

	t.Run("should log and return reader errors", func(t *testing.T) {
		// Arrange
		views := new(persistence.MockViewRepository)
		reader := new(persistence.MockMapTableReader)
		logger := new(core.MockLogger)

		view := BuildMigrationView(group, newArticleMigration(t, entity.IDMapSQL), nodeType)
		views.On("Get", ctx, "news_articles").Return(view, nil)
		reader.On("Rows", ctx, mock.Anything).Return(nil, int64(0), errors.New("no such table"))
		logger.On("Error", "Failed to read report rows", mock.Anything).Return()

		service := NewReportService(views, reader, logger)

		// Act
		_, err := service.Page(ctx, "news_articles", 0)

		// Assert
		assert.EqualError(t, err, "no such table")
		logger.AssertExpectations(t)
	})
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Imported", statusLabel(int64(0)))
	assert.Equal(t, "Needs update", statusLabel([]byte("1")))
	assert.Equal(t, "Ignored", statusLabel("2"))
	assert.Equal(t, "Unknown", statusLabel(nil))
}

func TestReportService_PageMessageTable(t *testing.T) {
	ctx := context.Background()
	group := &entity.MigrationGroup{ID: "news", Label: "News"}

	t.Run("should join the message table recorded on the view", func(t *testing.T) {
		// Arrange
		views := new(persistence.MockViewRepository)
		reader := new(persistence.MockMapTableReader)
		logger := new(core.MockLogger).AllowAll()

		migration, err := entity.NewMigration(entity.Migration{
			ID:          "d7_node_complete_article_with_revisions_and_translations",
			GroupID:     "news",
			Source:      entity.Source{Plugin: "d7_node", IDs: []string{"nid"}},
			Destination: entity.Destination{Plugin: "config", IDs: []string{"name"}},
			IDMap:       entity.IDMap{Kind: entity.IDMapSQL, Table: "legacy_article_map"},
		})
		require.NoError(t, err)
		view := BuildMigrationView(group, migration, nil)
		views.On("Get", ctx, view.ID).Return(view, nil)
		reader.On("Rows", ctx, mock.MatchedBy(func(q ports.ReportQuery) bool {
			return q.Table == "legacy_article_map" && q.MessageTable == migration.MessageTable()
		})).Return([]ports.MapRecord{}, int64(0), nil)

		service := NewReportService(views, reader, logger)

		// Act
		_, err = service.Page(ctx, view.ID, 0)

		// Assert
		require.NoError(t, err)
		assert.LessOrEqual(t, len(migration.MessageTable()), 63)
		reader.AssertExpectations(t)
	})
}
