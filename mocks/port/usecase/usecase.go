package usecase

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/usecase"
	"github.com/stretchr/testify/mock"
)

// MockMigrationListUseCase is a mock implementation of usecase.MigrationListUseCase
type MockMigrationListUseCase struct {
	mock.Mock
}

// Rows provides a mock function
func (m *MockMigrationListUseCase) Rows(ctx context.Context, filter persistence.MigrationFilter, access core.AccessChecker) ([]entity.MigrationRow, error) {
	args := m.Called(ctx, filter, access)
	rows, _ := args.Get(0).([]entity.MigrationRow)
	return rows, args.Error(1)
}

// Operations provides a mock function
func (m *MockMigrationListUseCase) Operations(ctx context.Context, migration *entity.Migration, access core.AccessChecker) ([]entity.Operation, error) {
	args := m.Called(ctx, migration, access)
	operations, _ := args.Get(0).([]entity.Operation)
	return operations, args.Error(1)
}

var _ usecase.MigrationListUseCase = (*MockMigrationListUseCase)(nil)

// MockReportUseCase is a mock implementation of usecase.ReportUseCase
type MockReportUseCase struct {
	mock.Mock
}

// View provides a mock function
func (m *MockReportUseCase) View(ctx context.Context, viewID string) (*entity.ViewSpec, error) {
	args := m.Called(ctx, viewID)
	view, _ := args.Get(0).(*entity.ViewSpec)
	return view, args.Error(1)
}

// Page provides a mock function
func (m *MockReportUseCase) Page(ctx context.Context, viewID string, page int) (*entity.ReportPage, error) {
	args := m.Called(ctx, viewID, page)
	result, _ := args.Get(0).(*entity.ReportPage)
	return result, args.Error(1)
}

var _ usecase.ReportUseCase = (*MockReportUseCase)(nil)
