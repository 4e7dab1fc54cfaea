package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// slowReportThreshold is the duration above which report queries are reported
const slowReportThreshold = 2 * time.Second

// MapTableReader implements persistence.MapTableReader using GORM
type MapTableReader struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *database.ErrorMapper
	metrics     *database.MetricsCollector
}

// NewMapTableReader creates a new MapTableReader instance
func NewMapTableReader(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MapTableReader {
	return &MapTableReader{
		db:          db,
		logger:      logger,
		errorMapper: database.NewErrorMapper(),
		metrics:     database.NewMetricsCollector(logger, timeProvider, slowReportThreshold),
	}
}

var _ persistence.MapTableReader = (*MapTableReader)(nil)

// Rows returns one page of map rows ordered by source_ids_hash, with their messages
func (r *MapTableReader) Rows(ctx context.Context, query persistence.ReportQuery) ([]persistence.MapRecord, int64, error) {
	if err := checkIdentifiers(append([]string{query.Table}, query.Columns...)...); err != nil {
		return nil, 0, err
	}

	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Table(query.Table).Count(&total).Error; err != nil {
		return nil, 0, r.errorMapper.MapError(err, "count map rows")
	}

	columns := query.Columns
	if !slices.Contains(columns, entity.ColumnSourceIDsHash) {
		columns = append(append([]string(nil), columns...), entity.ColumnSourceIDsHash)
	}

	var rows []map[string]any
	_, err := r.metrics.MeasureQuery(ctx, "read map rows", query.Table, func() (int64, error) {
		tx := db.Table(query.Table).
			Select(columns).
			Order(clause.OrderByColumn{Column: clause.Column{Name: entity.ColumnSourceIDsHash}})
		if query.Limit > 0 {
			tx = tx.Limit(query.Limit)
		}
		if query.Offset > 0 {
			tx = tx.Offset(query.Offset)
		}
		result := tx.Find(&rows)
		return result.RowsAffected, result.Error
	})
	if err != nil {
		return nil, 0, r.errorMapper.MapError(err, "read map rows")
	}

	records := make([]persistence.MapRecord, 0, len(rows))
	hashes := make([]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, persistence.MapRecord{Values: row})
		hashes = append(hashes, asString(row[entity.ColumnSourceIDsHash]))
	}

	if query.MessageTable == "" || len(records) == 0 {
		return records, total, nil
	}

	messages, err := r.messages(ctx, query.MessageTable, hashes)
	if err != nil {
		return nil, 0, err
	}
	for i, hash := range hashes {
		records[i].Messages = messages[hash]
	}
	return records, total, nil
}

// messages loads the messages of the given rows grouped by source_ids_hash; a missing table yields none
func (r *MapTableReader) messages(ctx context.Context, table string, hashes []string) (map[string][]string, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if !db.Migrator().HasTable(table) {
		r.logger.Debug("Message table not found", map[string]any{"table": table})
		return nil, nil
	}

	var found []model.MapMessage
	if err := db.Table(table).Where("source_ids_hash IN ?", hashes).Order("msgid").Find(&found).Error; err != nil {
		return nil, r.errorMapper.MapError(err, "read map messages")
	}

	grouped := make(map[string][]string, len(found))
	for _, m := range found {
		grouped[m.SourceIDsHash] = append(grouped[m.SourceIDsHash], m.Message)
	}
	return grouped, nil
}

// StatusCounts summarizes a map table by source_row_status
func (r *MapTableReader) StatusCounts(ctx context.Context, table string) (entity.StatusCounts, error) {
	var counts entity.StatusCounts
	if err := checkIdentifiers(table); err != nil {
		return counts, err
	}

	var groups []struct {
		Status int   `gorm:"column:status"`
		Total  int64 `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Table(table).
		Select(entity.ColumnSourceRowStatus + " AS status, COUNT(*) AS total").
		Group(entity.ColumnSourceRowStatus).
		Scan(&groups).Error
	if err != nil {
		return counts, r.errorMapper.MapError(err, "count map rows by status")
	}

	for _, g := range groups {
		counts.Add(entity.RowStatus(g.Status), g.Total)
	}
	return counts, nil
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
