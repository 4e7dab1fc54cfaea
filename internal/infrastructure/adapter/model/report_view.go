package model

import (
	"time"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"gorm.io/datatypes"
)

// ViewDefinition is the JSON document holding the handlers and displays of a view
type ViewDefinition struct {
	Handlers []entity.Handler `json:"handlers"`
	Displays []entity.Display `json:"displays"`
}

// ReportView represents the database model for report views
type ReportView struct {
	ID         string                             `gorm:"primaryKey;type:varchar(128)"`
	Label      string                             `gorm:"type:varchar(255);not null"`
	BaseTable  string                             `gorm:"type:varchar(128);not null;index:idx_report_views_base_table"`
	Status     bool                               `gorm:"not null;default:true"`
	Definition datatypes.JSONType[ViewDefinition] `gorm:"not null"`
	CreatedAt  time.Time                          `gorm:"not null"`
	UpdatedAt  time.Time                          `gorm:"not null"`
}

// TableName specifies the table name for ReportView
func (ReportView) TableName() string {
	return "report_views"
}

// ToEntity converts the database model to a domain view
func (v *ReportView) ToEntity() *entity.ViewSpec {
	definition := v.Definition.Data()
	return &entity.ViewSpec{
		ID:        v.ID,
		Label:     v.Label,
		BaseTable: v.BaseTable,
		Status:    v.Status,
		Handlers:  definition.Handlers,
		Displays:  definition.Displays,
	}
}

// FromEntity creates a database model from a domain view
func FromEntity(view *entity.ViewSpec) *ReportView {
	return &ReportView{
		ID:        view.ID,
		Label:     view.Label,
		BaseTable: view.BaseTable,
		Status:    view.Status,
		Definition: datatypes.NewJSONType(ViewDefinition{
			Handlers: view.Handlers,
			Displays: view.Displays,
		}),
	}
}
