package core

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockConfirmer is a mock implementation of core.Confirmer
type MockConfirmer struct {
	mock.Mock
}

// NewMockConfirmer creates a MockConfirmer that asserts its expectations when the test ends
func NewMockConfirmer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockConfirmer {
	m := &MockConfirmer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Confirm provides a mock function
func (m *MockConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	args := m.Called(ctx, question)
	return args.Bool(0), args.Error(1)
}
