package reportview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/usecase"
)

// Default column labels of handlers that don't declare one
var defaultLabels = map[string]string{
	entity.ColumnSourceRowStatus: "Status",
	entity.ColumnMessages:        "Messages",
}

// ReportService executes stored report views against their map tables
type ReportService struct {
	views  persistence.ViewRepository
	reader persistence.MapTableReader
	logger coreport.Logger
}

// NewReportService creates a new report service
func NewReportService(views persistence.ViewRepository, reader persistence.MapTableReader, logger coreport.Logger) *ReportService {
	return &ReportService{
		views:  views,
		reader: reader,
		logger: logger,
	}
}

var _ usecase.ReportUseCase = (*ReportService)(nil)

// View returns a stored report view
func (s *ReportService) View(ctx context.Context, viewID string) (*entity.ViewSpec, error) {
	return s.views.Get(ctx, viewID)
}

// Page executes the page display of a view and returns one page of rows (0-indexed)
func (s *ReportService) Page(ctx context.Context, viewID string, page int) (*entity.ReportPage, error) {
	view, err := s.views.Get(ctx, viewID)
	if err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}

	pageSize, offset := PageSize, 0
	title := view.Label
	if display, ok := view.Display(entity.DisplayPage); ok {
		title = display.Title
		if display.Pager != nil {
			pageSize, offset = display.Pager.ItemsPerPage, display.Pager.Offset
		}
	}

	if pageSize > 0 && page > (math.MaxInt-offset)/pageSize {
		return nil, fmt.Errorf("%w: page %d of view %s", errs.ErrInvalidPage, page, viewID)
	}

	fields := view.HandlersOfType(entity.HandlerField)
	query := persistence.ReportQuery{
		Table:   view.BaseTable,
		Columns: physicalColumns(fields),
		Offset:  offset + page*pageSize,
		Limit:   pageSize,
	}
	if messages, ok := handlerFor(fields, entity.ColumnMessages); ok {
		query.MessageTable = messages.JoinTable
	}
	if pageSize == 0 {
		query.Limit, query.Offset = -1, offset
	}

	records, total, err := s.reader.Rows(ctx, query)
	if err != nil {
		s.logger.Error("Failed to read report rows", map[string]any{
			"view_id": viewID,
			"table":   view.BaseTable,
			"error":   err.Error(),
		})
		return nil, err
	}

	result := &entity.ReportPage{
		ViewID:   view.ID,
		Title:    title,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Rows:     make([]entity.ReportRow, 0, len(records)),
	}
	for _, h := range fields {
		result.Columns = append(result.Columns, entity.ReportColumn{ID: h.ID, Label: columnLabel(h)})
	}
	for _, record := range records {
		result.Rows = append(result.Rows, renderRow(fields, record))
	}

	if len(result.Rows) == 0 {
		for _, area := range view.HandlersOfType(entity.HandlerEmpty) {
			if area.Empty {
				result.EmptyText = area.Content
				break
			}
		}
	}

	s.logger.Debug("Report page rendered", map[string]any{
		"view_id": viewID,
		"page":    page,
		"rows":    len(result.Rows),
		"total":   total,
	})
	return result, nil
}

// physicalColumns lists the map table columns read by the field handlers, without duplicates
func physicalColumns(fields []entity.Handler) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, h := range fields {
		if h.Field == entity.ColumnMessages || seen[h.Field] {
			continue
		}
		seen[h.Field] = true
		columns = append(columns, h.Field)
	}
	return columns
}

func handlerFor(fields []entity.Handler, field string) (entity.Handler, bool) {
	for _, h := range fields {
		if h.Field == field {
			return h, true
		}
	}
	return entity.Handler{}, false
}

func columnLabel(h entity.Handler) string {
	if h.Label != "" {
		return h.Label
	}
	if label, ok := defaultLabels[h.Field]; ok {
		return label
	}
	return h.Field
}

// renderRow projects a map record through the field handlers
func renderRow(fields []entity.Handler, record persistence.MapRecord) entity.ReportRow {
	row := make(entity.ReportRow, len(fields))
	var payload map[string]any
	decoded := false

	for _, h := range fields {
		switch {
		case h.Field == entity.ColumnMessages:
			row[h.ID] = strings.Join(record.Messages, "\n")
		case h.Field == entity.ColumnSourceRowStatus:
			row[h.ID] = statusLabel(record.Values[h.Field])
		case h.Format == "key":
			if !decoded {
				payload = decodePayload(record.Values[h.Field])
				decoded = true
			}
			row[h.ID] = payload[h.Key]
		default:
			row[h.ID] = normalize(record.Values[h.Field])
		}
	}
	return row
}

func statusLabel(value any) string {
	n, err := strconv.Atoi(fmt.Sprint(normalize(value)))
	if err != nil {
		return entity.RowStatus(-1).String()
	}
	return entity.RowStatus(n).String()
}

// decodePayload reads a JSON object stored in a payload column
func decodePayload(value any) map[string]any {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return payload
}

// normalize turns driver byte slices into strings
func normalize(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
