package main

import (
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/spf13/cobra"
)

var migrateMapTables bool

// migrateCmd applies the tool's own schema and optionally provisions map tables
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the report view schema",
	Long: `Creates or upgrades the report_views table. With --map-tables the map and
message tables of every registered migration are created when missing.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateMapTables, "map-tables", false, "Also create missing map tables of registered migrations")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// bootstrap applies the schema
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.close()

	if !migrateMapTables {
		return nil
	}

	migrations, err := app.registry.List(ctx, persistence.MigrationFilter{})
	if err != nil {
		return err
	}
	for _, migration := range migrations {
		if err := app.schema.EnsureMapTable(ctx, migration); err != nil {
			return err
		}
	}

	app.logger.Success("Map tables are in place", map[string]any{"migrations": len(migrations)})
	return nil
}
