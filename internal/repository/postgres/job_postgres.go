package postgres

import (
	"context"
	"database/sql"
	"time"

	"doctransform/internal/model"
	"doctransform/internal/repository"
)

// JobPostgres is a PostgreSQL implementation of repository.JobRepository.
type JobPostgres struct {
	db *sql.DB
}

// NewJobPostgres creates a new JobPostgres repository.
func NewJobPostgres(db *sql.DB) *JobPostgres {
	return &JobPostgres{db: db}
}

var _ repository.JobRepository = (*JobPostgres)(nil)

const jobColumns = `id, template_id, query, output_format, status, stage, result_path, error, prompt_tokens, completion_tokens, created_at, started_at, finished_at`

func scanJob(row interface{ Scan(...any) error }) (*model.TransformJob, error) {
	var j model.TransformJob
	if err := row.Scan(
		&j.ID,
		&j.TemplateID,
		&j.Query,
		&j.OutputFormat,
		&j.Status,
		&j.Stage,
		&j.ResultPath,
		&j.Error,
		&j.PromptTokens,
		&j.CompletionTokens,
		&j.CreatedAt,
		&j.StartedAt,
		&j.FinishedAt,
	); err != nil {
		return nil, err
	}
	return &j, nil
}

// Create inserts a new job row and returns the stored record.
func (r *JobPostgres) Create(ctx context.Context, job *model.TransformJob) (*model.TransformJob, error) {
	const q = `
		INSERT INTO transform_jobs (id, template_id, query, output_format, status, stage, created_at, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + jobColumns
	row := r.db.QueryRowContext(ctx, q,
		job.ID,
		job.TemplateID,
		job.Query,
		job.OutputFormat,
		job.Status,
		job.Stage,
		job.CreatedAt,
		job.StartedAt,
	)
	return scanJob(row)
}

// FindByID fetches a single job by its ID.
func (r *JobPostgres) FindByID(ctx context.Context, id string) (*model.TransformJob, error) {
	const q = `SELECT ` + jobColumns + ` FROM transform_jobs WHERE id = $1`
	return scanJob(r.db.QueryRowContext(ctx, q, id))
}

// List returns jobs using LIMIT/OFFSET pagination and a total count, newest first.
func (r *JobPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.TransformJob], error) {
	const qCount = `SELECT COUNT(*) FROM transform_jobs`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + jobColumns + `
		FROM transform_jobs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TransformJob, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.TransformJob]{
		Items: items,
		Total: total,
	}, nil
}

// SetStage records the currently running pipeline stage for a job.
func (r *JobPostgres) SetStage(ctx context.Context, id, stage string) error {
	const q = `UPDATE transform_jobs SET stage = $2, status = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, stage, model.JobStatusRunning)
	return err
}

// Complete marks a job completed with its stored output path and token usage.
func (r *JobPostgres) Complete(ctx context.Context, id, resultPath string, promptTokens, completionTokens int, finishedAt time.Time) error {
	const q = `
		UPDATE transform_jobs
		SET status = $2, result_path = $3, prompt_tokens = $4, completion_tokens = $5, finished_at = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, id, model.JobStatusCompleted, resultPath, promptTokens, completionTokens, finishedAt)
	return err
}

// Fail marks a job failed with a safe, user-visible error message.
func (r *JobPostgres) Fail(ctx context.Context, id, message string, finishedAt time.Time) error {
	const q = `UPDATE transform_jobs SET status = $2, error = $3, finished_at = $4 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, model.JobStatusFailed, message, finishedAt)
	return err
}
