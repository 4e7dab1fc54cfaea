package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/config"
	usecasemocks "github.com/amirhossein-jamali/migrate-views/mocks/port/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(list *usecasemocks.MockMigrationListUseCase, reports *usecasemocks.MockReportUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNoopLogger()

	router := gin.New()
	router.Use(middleware.Access(config.AccessConfig{
		RoleHeader: "X-Role",
		Roles: map[string][]string{
			"reviewer":      {coreport.PermissionViewMigrateReports},
			"administrator": {coreport.PermissionViewMigrateReports, coreport.PermissionAdministerMigration},
		},
	}))

	migrations := NewMigrationHandler(list, log)
	views := NewReportHandler(reports, log)
	router.GET("/migrations", migrations.List)
	router.GET("/views/:viewId", views.GetView)
	router.GET("/admin/structure/migrate/manage/:group/migrations/:migration/reports", views.GetReport)
	return router
}

func perform(router *gin.Engine, path, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		req.Header.Set("X-Role", role)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func reportView(enabled bool) *entity.ViewSpec {
	view := entity.NewViewSpec("content_articles", "Content - Articles", "migrate_map_articles")
	view.Status = enabled
	page := view.AddDisplay(entity.DisplayPluginPage, "Articles", entity.DisplayPage)
	page.Path = "admin/structure/migrate/manage/content/migrations/articles/reports"
	page.Access = &entity.Access{Type: "perm", Permission: coreport.PermissionViewMigrateReports}
	return view
}

func TestMigrationHandler_List(t *testing.T) {
	t.Run("should list migrations with parsed filters", func(t *testing.T) {
		// Arrange
		list := new(usecasemocks.MockMigrationListUseCase)
		router := newTestRouter(list, new(usecasemocks.MockReportUseCase))
		filter := persistence.MigrationFilter{IDs: []string{"articles", "pages"}, Groups: []string{"content"}, Tag: "Drupal 7"}
		list.On("Rows", mock.Anything, filter, mock.Anything).Return([]entity.MigrationRow{{
			MigrationID: "articles",
			GroupID:     "content",
			Label:       "Articles",
			MapTable:    "migrate_map_articles",
			Status:      entity.StatusCounts{Total: 3, Imported: 2, Failed: 1},
			Operations:  []entity.Operation{{Key: "execute", Title: "Execute", Route: "migrate_tools.execute", Path: "/execute/content/articles", Weight: 20}},
		}}, nil)

		// Act
		rec := perform(router, "/migrations?ids=articles,+pages,&group=content&tag=Drupal+7", "Administrator")

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)
		var body dto.MigrationListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Migrations, 1)
		assert.Equal(t, "articles", body.Migrations[0].ID)
		assert.Equal(t, int64(1), body.Migrations[0].Status.Failed)
		assert.Equal(t, "/execute/content/articles", body.Migrations[0].Operations[0].Path)
		list.AssertExpectations(t)
	})

	t.Run("should pass the caller's permissions to the use case", func(t *testing.T) {
		// Arrange
		list := new(usecasemocks.MockMigrationListUseCase)
		router := newTestRouter(list, new(usecasemocks.MockReportUseCase))
		list.On("Rows", mock.Anything, persistence.MigrationFilter{}, mock.MatchedBy(func(access coreport.AccessChecker) bool {
			return access.HasPermission(coreport.PermissionViewMigrateReports) && !access.HasPermission(coreport.PermissionAdministerMigration)
		})).Return([]entity.MigrationRow{}, nil)

		// Act
		rec := perform(router, "/migrations", "reviewer")

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		list.AssertExpectations(t)
	})

	t.Run("should deny callers without migrate permissions", func(t *testing.T) {
		// Arrange
		list := new(usecasemocks.MockMigrationListUseCase)
		router := newTestRouter(list, new(usecasemocks.MockReportUseCase))

		// Act
		rec := perform(router, "/migrations", "")

		// Assert
		assert.Equal(t, http.StatusForbidden, rec.Code)
		list.AssertNotCalled(t, "Rows", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should map unknown migrations to 404", func(t *testing.T) {
		// Arrange
		list := new(usecasemocks.MockMigrationListUseCase)
		router := newTestRouter(list, new(usecasemocks.MockReportUseCase))
		list.On("Rows", mock.Anything, mock.Anything, mock.Anything).Return(nil, domainerr.NewMigrationNotFoundError("nodes"))

		// Act
		rec := perform(router, "/migrations?ids=nodes", "reviewer")

		// Assert
		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domainerr.CodeMigrationNotFound, body.Code)
	})
}

func TestReportHandler_GetReport(t *testing.T) {
	const path = "/admin/structure/migrate/manage/content/migrations/articles/reports"

	t.Run("should render the requested page", func(t *testing.T) {
		// Arrange
		reports := new(usecasemocks.MockReportUseCase)
		router := newTestRouter(new(usecasemocks.MockMigrationListUseCase), reports)
		reports.On("View", mock.Anything, "content_articles").Return(reportView(true), nil)
		reports.On("Page", mock.Anything, "content_articles", 2).Return(&entity.ReportPage{
			ViewID:   "content_articles",
			Title:    "Articles",
			Columns:  []entity.ReportColumn{{ID: "source_row_status", Label: "Status"}},
			Rows:     []entity.ReportRow{{"source_row_status": "Imported"}},
			Page:     2,
			PageSize: 200,
			Total:    401,
		}, nil)

		// Act
		rec := perform(router, path+"?page=2", "reviewer")

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)
		var body dto.ReportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Page)
		assert.Equal(t, int64(401), body.Total)
		assert.Equal(t, "Imported", body.Rows[0]["source_row_status"])
		reports.AssertExpectations(t)
	})

	t.Run("should enforce the page display permission", func(t *testing.T) {
		// Arrange
		reports := new(usecasemocks.MockReportUseCase)
		router := newTestRouter(new(usecasemocks.MockMigrationListUseCase), reports)
		reports.On("View", mock.Anything, "content_articles").Return(reportView(true), nil)

		// Act
		rec := perform(router, path, "guest")

		// Assert
		assert.Equal(t, http.StatusForbidden, rec.Code)
		reports.AssertNotCalled(t, "Page", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should hide disabled views", func(t *testing.T) {
		// Arrange
		reports := new(usecasemocks.MockReportUseCase)
		router := newTestRouter(new(usecasemocks.MockMigrationListUseCase), reports)
		reports.On("View", mock.Anything, "content_articles").Return(reportView(false), nil)

		// Act
		rec := perform(router, path, "reviewer")

		// Assert
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should reject invalid page numbers", func(t *testing.T) {
		// Arrange
		reports := new(usecasemocks.MockReportUseCase)
		router := newTestRouter(new(usecasemocks.MockMigrationListUseCase), reports)

		// Act
		rec := perform(router, path+"?page=-1", "reviewer")

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		reports.AssertNotCalled(t, "View", mock.Anything, mock.Anything)
	})

	t.Run("should reject pages beyond the addressable rows", func(t *testing.T) {
		// Arrange
		reports := new(usecasemocks.MockReportUseCase)
		router := newTestRouter(new(usecasemocks.MockMigrationListUseCase), reports)
		reports.On("View", mock.Anything, "content_articles").Return(reportView(true), nil)
		reports.On("Page", mock.Anything, "content_articles", math.MaxInt).
			Return(nil, fmt.Errorf("%w: page %d", domainerr.ErrInvalidPage, math.MaxInt))

		// Act
		rec := perform(router, path+"?page="+strconv.Itoa(math.MaxInt), "reviewer")

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domainerr.CodeInvalidPage, body.Code)
	})

	t.Run("should report an unreachable map table as unavailable", func(t *testing.T) {
		// Arrange
		reports := new(usecasemocks.MockReportUseCase)
		router := newTestRouter(new(usecasemocks.MockMigrationListUseCase), reports)
		reports.On("View", mock.Anything, "content_articles").Return(reportView(true), nil)
		reports.On("Page", mock.Anything, "content_articles", 0).Return(nil, domainerr.ErrDatabaseConnection)

		// Act
		rec := perform(router, path, "administrator")

		// Assert
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestReportHandler_GetView(t *testing.T) {
	t.Run("should return the view definition", func(t *testing.T) {
		// Arrange
		reports := new(usecasemocks.MockReportUseCase)
		router := newTestRouter(new(usecasemocks.MockMigrationListUseCase), reports)
		reports.On("View", mock.Anything, "content_articles").Return(reportView(true), nil)

		// Act
		rec := perform(router, "/views/content_articles", "reviewer")

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)
		var body dto.ViewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "migrate_map_articles", body.BaseTable)
		assert.Len(t, body.Displays, 2)
	})

	t.Run("should map a missing view to 404", func(t *testing.T) {
		// Arrange
		reports := new(usecasemocks.MockReportUseCase)
		router := newTestRouter(new(usecasemocks.MockMigrationListUseCase), reports)
		reports.On("View", mock.Anything, "unknown").Return(nil, domainerr.ErrViewNotFound)

		// Act
		rec := perform(router, "/views/unknown", "reviewer")

		// Assert
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	validation := domainerr.NewValidationError("content_articles", map[string][]string{"page_1": {"Display page_1 requires a path."}})

	code, _ := statusFor(validation)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = statusFor(domainerr.ErrInvalidIdentifier)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = statusFor(fmt.Errorf("page 9: %w", domainerr.ErrInvalidPage))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = statusFor(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, code)
}
