package usecase

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
)

// GenerateRequest selects the migrations to generate report views for
type GenerateRequest struct {
	Filter persistence.MigrationFilter
	// ContinueOnFailure keeps the batch going when a migration fails its requirements
	ContinueOnFailure bool
}

// Outcome is what happened to one migration during generation
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

// GenerateResult records the outcome of one migration
type GenerateResult struct {
	GroupID     string
	MigrationID string
	ViewID      string
	Outcome     Outcome
	// Reason explains a skip or failure
	Reason string
	// Errors lists validation messages keyed by display ID
	Errors map[string][]string
}

// GenerateReport is the ordered list of outcomes of a generation batch
type GenerateReport struct {
	Results []GenerateResult
}

// Count returns the number of results with the given outcome
func (r *GenerateReport) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// ReportViewUseCase generates and serves migration report views
type ReportViewUseCase interface {
	// Generate creates the missing report views of the selected migrations
	// Skips and validation failures are recorded in the report, not returned as errors
	Generate(ctx context.Context, req GenerateRequest) (*GenerateReport, error)

	// GenerateOne runs the generation steps for a single migration of a group
	GenerateOne(ctx context.Context, group *entity.MigrationGroup, migration *entity.Migration) GenerateResult
}

// ReportUseCase renders stored report views
type ReportUseCase interface {
	// View returns a stored report view
	View(ctx context.Context, viewID string) (*entity.ViewSpec, error)

	// Page executes a report view and returns one page of rows (0-indexed)
	Page(ctx context.Context, viewID string, page int) (*entity.ReportPage, error)
}
