package persistence

import (
	"context"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockViewRepository is a mock implementation of persistence.ViewRepository
type MockViewRepository struct {
	mock.Mock
}

// NewMockViewRepository creates a mock that asserts its expectations when the test ends
func NewMockViewRepository(t testingT) *MockViewRepository {
	m := &MockViewRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Exists provides a mock function
func (m *MockViewRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// Get provides a mock function
func (m *MockViewRepository) Get(ctx context.Context, id string) (*entity.ViewSpec, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*entity.ViewSpec)
	return view, args.Error(1)
}

// Create provides a mock function
func (m *MockViewRepository) Create(ctx context.Context, view *entity.ViewSpec) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

// List provides a mock function
func (m *MockViewRepository) List(ctx context.Context) ([]*entity.ViewSpec, error) {
	args := m.Called(ctx)
	views, _ := args.Get(0).([]*entity.ViewSpec)
	return views, args.Error(1)
}
