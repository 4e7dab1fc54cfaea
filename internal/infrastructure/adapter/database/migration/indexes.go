package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// IndexManager manages the indexes of the report view store
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateIndexes creates the lookup indexes of the report view store
func (m *IndexManager) CreateIndexes(ctx context.Context) error {
	migrator := m.db.WithContext(ctx).Migrator()

	for _, name := range []string{"idx_report_views_base_table"} {
		if migrator.HasIndex(&model.ReportView{}, name) {
			continue
		}
		if err := migrator.CreateIndex(&model.ReportView{}, name); err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Report view indexes created", nil)
	return nil
}
