package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"doctransform/internal/agent"
	"doctransform/internal/llm"
	"doctransform/internal/model"
	"doctransform/internal/service"
	"doctransform/internal/storage"
)

type MockTransformService struct {
	mock.Mock
}

func (m *MockTransformService) Transform(ctx context.Context, templateID, query, outputFormat string) (*model.TransformJob, error) {
	args := m.Called(ctx, templateID, query, outputFormat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransformJob), args.Error(1)
}

func (m *MockTransformService) Get(ctx context.Context, id string) (*model.TransformJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransformJob), args.Error(1)
}

func (m *MockTransformService) List(ctx context.Context, limit, offset int) (*service.JobListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JobListResult), args.Error(1)
}

func (m *MockTransformService) Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.TransformJob, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var job *model.TransformJob
	if args.Get(2) != nil {
		job = args.Get(2).(*model.TransformJob)
	}
	return rc, args.Get(1).(storage.ObjectInfo), job, args.Error(3)
}

func (m *MockTransformService) PresignOutput(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockTransformService) Preview(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockPipelineRunner is a testify mock of service.PipelineRunner.
type MockPipelineRunner struct {
	mock.Mock
}

func (m *MockPipelineRunner) Run(ctx context.Context, tasks []*agent.Task, onEvent agent.EventFunc) (string, llm.CallStats, error) {
	args := m.Called(ctx, tasks, onEvent)
	return args.String(0), args.Get(1).(llm.CallStats), args.Error(2)
}
