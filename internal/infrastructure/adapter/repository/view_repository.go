package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// ViewRepository implements persistence.ViewRepository using GORM
type ViewRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorMapper     *database.ErrorMapper
	errorClassifier *ErrorClassifier
}

// NewViewRepository creates a new ViewRepository instance
func NewViewRepository(db *gorm.DB, logger coreport.Logger) *ViewRepository {
	return &ViewRepository{
		db:              db,
		logger:          logger,
		errorMapper:     database.NewErrorMapper(),
		errorClassifier: NewErrorClassifier(),
	}
}

var _ persistence.ViewRepository = (*ViewRepository)(nil)

// Exists checks if a view with the given ID is registered
func (r *ViewRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ReportView{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, r.handleDatabaseError("checking view", err, id)
	}
	return count > 0, nil
}

// Get loads a view by ID
func (r *ViewRepository) Get(ctx context.Context, id string) (*entity.ViewSpec, error) {
	var view model.ReportView
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&view).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", r.errorMapper.MapEntityNotFoundError(err, database.EntityTypeView, "get view"), id)
		}
		return nil, r.handleDatabaseError("getting view", err, id)
	}

	r.logger.Debug("View retrieved", map[string]any{
		"view_id":    id,
		"base_table": view.BaseTable,
	})
	return view.ToEntity(), nil
}

// Create saves a new view inside a transaction; an existing view is never overwritten
func (r *ViewRepository) Create(ctx context.Context, view *entity.ViewSpec) error {
	r.logger.Debug("Creating view", map[string]any{
		"view_id":    view.ID,
		"base_table": view.BaseTable,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ReportView{}).Where("id = ?", view.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrViewExists
		}
		return tx.Create(model.FromEntity(view)).Error
	})
	if err != nil {
		if errors.Is(err, errs.ErrViewExists) || errors.Is(err, gorm.ErrDuplicatedKey) || r.errorClassifier.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", errs.ErrViewExists, view.ID)
		}
		return r.handleDatabaseError("creating view", err, view.ID)
	}
	return nil
}

// List returns every registered view ordered by ID
func (r *ViewRepository) List(ctx context.Context) ([]*entity.ViewSpec, error) {
	var rows []model.ReportView
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, r.handleDatabaseError("listing views", err, "")
	}

	views := make([]*entity.ViewSpec, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].ToEntity())
	}
	return views, nil
}

// handleDatabaseError standardizes database error handling
func (r *ViewRepository) handleDatabaseError(operation string, err error, viewID string) error {
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"view_id":    viewID,
		"error":      err.Error(),
		"error_type": string(r.errorClassifier.Classify(err)),
	})
	return r.errorMapper.MapError(err, operation)
}
