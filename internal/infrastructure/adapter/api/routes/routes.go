package routes

import (
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	migrationHandler *handler.MigrationHandler,
	reportHandler *handler.ReportHandler,
) {
	// GET /migrations
	router.GET("/migrations", migrationHandler.List)

	// GET /views/:viewId
	router.GET("/views/:viewId", reportHandler.GetView)

	// Same path as the page display of generated report views
	manage := router.Group("/admin/structure/migrate/manage")
	{
		// GET /admin/structure/migrate/manage/:group/migrations/:migration/reports
		manage.GET("/:group/migrations/:migration/reports", reportHandler.GetReport)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider, access config.AccessConfig) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Access(access))
	router.Use(middleware.Logger(logger, timeProvider))
}
