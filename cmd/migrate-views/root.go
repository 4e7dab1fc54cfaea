package main

import (
	"context"
	"fmt"

	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/registry"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/repository"
	timeProvider "github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "migrate-views",
	Short: "Report views and map table maintenance for data migrations",
	Long: `migrate-views generates a report view for every registered migration,
prunes raw payload columns from migration map tables and serves the
migration list and its reports over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (default: configs/{MV_ENV}.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// application holds the adapters shared by every command
type application struct {
	config   *config.Config
	logger   coreport.Logger
	time     coreport.TimeProvider
	db       *database.Manager
	registry *registry.Registry
	views    *repository.ViewRepository
	schema   *repository.SchemaInspector
	reader   *repository.MapTableReader
}

// bootstrap loads configuration, connects to the database, applies the tool's
// own schema and loads the migration definitions
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbConfig, err := database.FromSettings(cfg.Database, cfg.Logger.Level)
	if err != nil {
		return nil, err
	}

	tp := timeProvider.NewRealTimeProvider()
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(ctx); err != nil {
		return nil, err
	}

	if err := dbManager.Migrate(ctx); err != nil {
		_ = dbManager.Close()
		return nil, err
	}

	reg, err := registry.Load(cfg.Registry.Path, appLogger)
	if err != nil {
		_ = dbManager.Close()
		return nil, err
	}

	return &application{
		config:   cfg,
		logger:   appLogger,
		time:     tp,
		db:       dbManager,
		registry: reg,
		views:    repository.NewViewRepository(dbManager.DB(), appLogger),
		schema:   repository.NewSchemaInspector(dbManager.DB(), appLogger, tp),
		reader:   repository.NewMapTableReader(dbManager.DB(), appLogger, tp),
	}, nil
}

func newLogger(cfg *config.Config) (coreport.Logger, error) {
	if !cfg.Logger.Enabled {
		return logger.NewNoopLogger(), nil
	}

	level := coreport.ParseLogLevel(cfg.Logger.Level)
	if verbose {
		level = coreport.LogLevelDebug
	}

	opts := logger.Options{
		Production: cfg.Environment == config.Production || cfg.Logger.Format == "json",
		Level:      level,
	}
	if cfg.Logger.Output != "" {
		opts.OutputPaths = []string{cfg.Logger.Output}
	}
	return logger.NewZapLogger(opts)
}

// close releases the database connection and flushes buffered log entries
func (a *application) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database connection", map[string]any{"error": err.Error()})
	}
	_ = a.logger.Flush()
}
