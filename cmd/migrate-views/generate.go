package main

import (
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/usecase/reportview"
	"github.com/spf13/cobra"
)

var (
	generateGroups            []string
	generateTag               string
	generateContinueOnFailure bool
)

// generateCmd creates the missing report views of the selected migrations
var generateCmd = &cobra.Command{
	Use:     "generate [migration[,migration...]]",
	Aliases: []string{"generate-views"},
	Short:   "Generate report views for migrations",
	Long: `Creates a report view over the map table of every selected migration.

Migrations that do not keep a relational map table, or whose view already
exists, are skipped. Maps that store row payloads also get one column per
source field. Views that fail validation are reported with every validation
message and are not saved.`,
	Example: `  migrate-views generate
  migrate-views generate articles,pages
  migrate-views generate --group content --tag "Drupal 7" --continue-on-failure`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceVar(&generateGroups, "group", nil, "Only migrations of these groups")
	generateCmd.Flags().StringVar(&generateTag, "tag", "", "Only migrations carrying this tag")
	generateCmd.Flags().BoolVar(&generateContinueOnFailure, "continue-on-failure", false, "Keep going when a migration fails")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	app, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	service := reportview.NewService(
		app.registry,
		app.registry.EntityTypes(),
		app.views,
		app.schema,
		reportview.NewValidator(),
		app.logger,
	)

	_, err = service.Generate(cmd.Context(), usecase.GenerateRequest{
		Filter: persistence.MigrationFilter{
			IDs:    splitList(args...),
			Groups: splitList(generateGroups...),
			Tag:    generateTag,
		},
		ContinueOnFailure: generateContinueOnFailure,
	})
	return err
}
