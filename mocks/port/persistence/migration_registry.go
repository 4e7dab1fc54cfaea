package persistence

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockMigrationRegistry is a mock implementation of persistence.MigrationRegistry
type MockMigrationRegistry struct {
	mock.Mock
}

// NewMockMigrationRegistry creates a mock that asserts its expectations when the test ends
func NewMockMigrationRegistry(t testingT) *MockMigrationRegistry {
	m := &MockMigrationRegistry{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// List provides a mock function
func (m *MockMigrationRegistry) List(ctx context.Context, filter persistence.MigrationFilter) ([]*entity.Migration, error) {
	args := m.Called(ctx, filter)
	migrations, _ := args.Get(0).([]*entity.Migration)
	return migrations, args.Error(1)
}

// Get provides a mock function
func (m *MockMigrationRegistry) Get(ctx context.Context, id string) (*entity.Migration, error) {
	args := m.Called(ctx, id)
	migration, _ := args.Get(0).(*entity.Migration)
	return migration, args.Error(1)
}

// Group provides a mock function
func (m *MockMigrationRegistry) Group(ctx context.Context, id string) (*entity.MigrationGroup, error) {
	args := m.Called(ctx, id)
	group, _ := args.Get(0).(*entity.MigrationGroup)
	return group, args.Error(1)
}

// MockEntityTypeRepository is a mock implementation of persistence.EntityTypeRepository
type MockEntityTypeRepository struct {
	mock.Mock
}

// NewMockEntityTypeRepository creates a mock that asserts its expectations when the test ends
func NewMockEntityTypeRepository(t testingT) *MockEntityTypeRepository {
	m := &MockEntityTypeRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Get provides a mock function
func (m *MockEntityTypeRepository) Get(ctx context.Context, id string) (*entity.EntityType, error) {
	args := m.Called(ctx, id)
	entityType, _ := args.Get(0).(*entity.EntityType)
	return entityType, args.Error(1)
}
