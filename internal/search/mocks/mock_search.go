package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doctransform/internal/search"
)

// MockService is a testify mock of search.Service.
type MockService struct {
	mock.Mock
}

func (m *MockService) Search(ctx context.Context, query string) ([]search.Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.Result), args.Error(1)
}
