package main

import (
	"errors"

	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/usecase/maptable"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/prompt"
	"github.com/spf13/cobra"
)

var (
	cleanupTables string
	cleanupYes    bool
)

// cleanupCmd drops the payload columns of migration map tables
var cleanupCmd = &cobra.Command{
	Use:     "cleanup-map-tables",
	Aliases: []string{"cleanup"},
	Short:   "Remove source_data and destination_data columns from map tables",
	Long: `Drops the raw payload columns from the given map tables, or from every
migrate_map_* table when --tables is omitted. Names that do not exist are
ignored. Nothing is changed unless the operator confirms.`,
	Example: `  migrate-views cleanup-map-tables
  migrate-views cleanup-map-tables --tables migrate_map_articles,migrate_map_pages --yes`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupTables, "tables", "", "Comma separated map tables (default: all)")
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "Do not ask for confirmation")
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	app, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	var confirmer coreport.Confirmer = prompt.NewConsoleConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
	if cleanupYes {
		confirmer = prompt.NewAutoConfirmer(true, app.logger)
	}

	service := maptable.NewCleanupService(app.schema, confirmer, app.logger)
	_, err = service.Cleanup(cmd.Context(), splitList(cleanupTables))
	// an empty selection is already logged and is not a failure of the command
	if errors.Is(err, errs.ErrNoTables) {
		return nil
	}
	return err
}
