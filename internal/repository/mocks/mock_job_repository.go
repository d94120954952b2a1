package mocks

import (
	"context"
	"time"

	"doctransform/internal/model"
	"doctransform/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *model.TransformJob) (*model.TransformJob, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransformJob), args.Error(1)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id string) (*model.TransformJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransformJob), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.TransformJob], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.TransformJob]), args.Error(1)
}

func (m *MockJobRepository) SetStage(ctx context.Context, id, stage string) error {
	args := m.Called(ctx, id, stage)
	return args.Error(0)
}

func (m *MockJobRepository) Complete(ctx context.Context, id, resultPath string, promptTokens, completionTokens int, finishedAt time.Time) error {
	args := m.Called(ctx, id, resultPath, promptTokens, completionTokens, finishedAt)
	return args.Error(0)
}

func (m *MockJobRepository) Fail(ctx context.Context, id, message string, finishedAt time.Time) error {
	args := m.Called(ctx, id, message, finishedAt)
	return args.Error(0)
}
