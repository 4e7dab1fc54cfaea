package persistence

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

// MockSchemaInspector is a mock implementation of persistence.SchemaInspector
type MockSchemaInspector struct {
	mock.Mock
}

// NewMockSchemaInspector creates a mock that asserts its expectations when the test ends
func NewMockSchemaInspector(t testingT) *MockSchemaInspector {
	m := &MockSchemaInspector{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// TableExists provides a mock function
func (m *MockSchemaInspector) TableExists(ctx context.Context, table string) (bool, error) {
	args := m.Called(ctx, table)
	return args.Bool(0), args.Error(1)
}

// FindTables provides a mock function
func (m *MockSchemaInspector) FindTables(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	tables, _ := args.Get(0).([]string)
	return tables, args.Error(1)
}

// ColumnExists provides a mock function
func (m *MockSchemaInspector) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	args := m.Called(ctx, table, column)
	return args.Bool(0), args.Error(1)
}

// DropColumn provides a mock function
func (m *MockSchemaInspector) DropColumn(ctx context.Context, table, column string) error {
	args := m.Called(ctx, table, column)
	return args.Error(0)
}

// EnsureMapTable provides a mock function
func (m *MockSchemaInspector) EnsureMapTable(ctx context.Context, migration *entity.Migration) error {
	args := m.Called(ctx, migration)
	return args.Error(0)
}

// MockMapTableReader is a mock implementation of persistence.MapTableReader
type MockMapTableReader struct {
	mock.Mock
}

// NewMockMapTableReader creates a mock that asserts its expectations when the test ends
func NewMockMapTableReader(t testingT) *MockMapTableReader {
	m := &MockMapTableReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Rows provides a mock function
func (m *MockMapTableReader) Rows(ctx context.Context, query persistence.ReportQuery) ([]persistence.MapRecord, int64, error) {
	args := m.Called(ctx, query)
	records, _ := args.Get(0).([]persistence.MapRecord)
	return records, args.Get(1).(int64), args.Error(2)
}

// StatusCounts provides a mock function
func (m *MockMapTableReader) StatusCounts(ctx context.Context, table string) (entity.StatusCounts, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(entity.StatusCounts), args.Error(1)
}
