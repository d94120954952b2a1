package repository

import (
	"context"
	"time"

	"doctransform/internal/model"
)

// JobRepository defines data access for transform jobs.
// The pipeline updates the stage column while a job runs, so readers can
// observe progress on a row that is still in flight.
type JobRepository interface {
	// Create inserts a new job record and returns the stored row.
	Create(ctx context.Context, job *model.TransformJob) (*model.TransformJob, error)

	// FindByID returns a job by its ID.
	FindByID(ctx context.Context, id string) (*model.TransformJob, error)

	// List returns a paginated list of jobs and the total row count, newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.TransformJob], error)

	// SetStage records the currently running pipeline stage for a job.
	SetStage(ctx context.Context, id, stage string) error

	// Complete marks a job completed with the stored output path and token usage.
	Complete(ctx context.Context, id, resultPath string, promptTokens, completionTokens int, finishedAt time.Time) error

	// Fail marks a job failed with a safe, user-visible error message.
	Fail(ctx context.Context, id, message string, finishedAt time.Time) error
}
