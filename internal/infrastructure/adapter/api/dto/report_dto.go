package dto

import "github.com/amirhossein-jamali/migrate-views/internal/domain/entity"

// ViewResponse is the body of GET /views/:viewId
type ViewResponse struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	BaseTable string           `json:"base_table"`
	Status    bool             `json:"status"`
	Handlers  []entity.Handler `json:"handlers"`
	Displays  []entity.Display `json:"displays"`
}

// NewViewResponse converts a view to its response form
func NewViewResponse(view *entity.ViewSpec) ViewResponse {
	return ViewResponse{
		ID:        view.ID,
		Label:     view.Label,
		BaseTable: view.BaseTable,
		Status:    view.Status,
		Handlers:  view.Handlers,
		Displays:  view.Displays,
	}
}

// ReportResponse is one page of a migration report
type ReportResponse struct {
	ViewID    string                `json:"view_id"`
	Title     string                `json:"title"`
	Columns   []entity.ReportColumn `json:"columns"`
	Rows      []entity.ReportRow    `json:"rows"`
	Page      int                   `json:"page"`
	PageSize  int                   `json:"page_size"`
	Total     int64                 `json:"total"`
	EmptyText string                `json:"empty_text,omitempty"`
}

// NewReportResponse converts a report page to its response form
func NewReportResponse(page *entity.ReportPage) ReportResponse {
	return ReportResponse{
		ViewID:    page.ViewID,
		Title:     page.Title,
		Columns:   page.Columns,
		Rows:      page.Rows,
		Page:      page.Page,
		PageSize:  page.PageSize,
		Total:     page.Total,
		EmptyText: page.EmptyText,
	}
}
