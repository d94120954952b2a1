package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"doctransform/internal/llm"
)

// MockService is a testify mock of llm.Service.
type MockService struct {
	mock.Mock
}

func (m *MockService) Complete(ctx context.Context, system, user string) (string, llm.CallStats, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Get(1).(llm.CallStats), args.Error(2)
}
