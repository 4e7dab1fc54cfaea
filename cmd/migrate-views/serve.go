package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/usecase/migrationlist"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/usecase/reportview"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var servePoolInterval time.Duration

// serveCmd exposes the migration list and report views over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the migration list and report views over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&servePoolInterval, "pool-interval", time.Minute, "Connection pool metrics interval (0 disables)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.close()

	if app.config.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	if servePoolInterval > 0 {
		app.db.StartMonitoring(servePoolInterval)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", app.config.Server.Host, app.config.Server.Port),
		Handler:           newRouter(app),
		ReadTimeout:       app.config.Server.ReadTimeout,
		WriteTimeout:      app.config.Server.WriteTimeout,
		ReadHeaderTimeout: app.config.Server.ReadHeaderTimeout,
		IdleTimeout:       app.config.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", map[string]any{
			"address": server.Addr,
			"env":     app.config.Environment,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			app.logger.Error("Failed to start server", map[string]any{"error": err.Error()})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
		return err
	}

	app.logger.Info("Server exited gracefully", nil)
	return nil
}

// newRouter wires the HTTP handlers onto the shared adapters
func newRouter(app *application) *gin.Engine {
	listService := migrationlist.NewService(app.registry, app.views, app.reader, app.schema, app.logger)
	reportService := reportview.NewReportService(app.views, app.reader, app.logger)

	router := gin.New()
	routes.SetupMiddlewares(router, app.logger, app.time, app.config.Access)
	routes.SetupRoutes(
		router,
		handler.NewMigrationHandler(listService, app.logger),
		handler.NewReportHandler(reportService, app.logger),
	)
	return router
}
