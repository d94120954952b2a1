package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"doctransform/internal/agent"
	"doctransform/internal/docio"
	"doctransform/internal/llm"
	"doctransform/internal/model"
	"doctransform/internal/repository"
	"doctransform/internal/storage"
)

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrQueryRequired = errors.New("query is required")
	ErrJobNotDone    = errors.New("job has no output yet")
)

// PipelineRunner abstracts the agent pipeline for testing.
type PipelineRunner interface {
	Run(ctx context.Context, tasks []*agent.Task, onEvent agent.EventFunc) (string, llm.CallStats, error)
}

// JobListResult is the service-level DTO for paginated jobs.
type JobListResult struct {
	Items []model.TransformJob `json:"data"`
	Total int                  `json:"total"`
}

// TransformService runs the agent pipeline against an uploaded template and
// manages the resulting jobs and their rendered outputs.
type TransformService interface {
	// Transform runs the full pipeline synchronously: extract the template text,
	// execute the four tasks in order, render the result into the requested
	// format and store it. The job row is updated stage by stage while the run
	// is in flight. The returned job reflects the terminal state; on pipeline
	// failure both the failed job and the error are returned.
	Transform(ctx context.Context, templateID, query, outputFormat string) (*model.TransformJob, error)

	// Get returns a single job by its ID.
	Get(ctx context.Context, id string) (*model.TransformJob, error)

	// List returns jobs using limit/offset and a total count, newest first.
	List(ctx context.Context, limit, offset int) (*JobListResult, error)

	// Download streams the rendered output of a completed job.
	Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.TransformJob, error)

	// PresignOutput returns a time-limited download URL for a completed job's output.
	PresignOutput(ctx context.Context, id string, expiry time.Duration) (string, error)

	// Preview returns an HTML rendering of a completed job's output for the UI.
	Preview(ctx context.Context, id string) ([]byte, error)
}

type transformService struct {
	templates TemplateService
	jobs      repository.JobRepository
	store     storage.Storage
	pipeline  PipelineRunner
}

// NewTransformService constructs a new TransformService.
func NewTransformService(templates TemplateService, jobs repository.JobRepository, store storage.Storage, pipeline PipelineRunner) TransformService {
	return &transformService{templates: templates, jobs: jobs, store: store, pipeline: pipeline}
}

func (s *transformService) Transform(ctx context.Context, templateID, query, outputFormat string) (*model.TransformJob, error) {
	if query == "" {
		return nil, ErrQueryRequired
	}
	format, err := docio.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	tmpl, text, err := s.templates.Content(ctx, templateID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job, err := s.jobs.Create(ctx, &model.TransformJob{
		ID:           uuid.New().String(),
		TemplateID:   tmpl.ID,
		Query:        query,
		OutputFormat: string(format),
		Status:       model.JobStatusPending,
		CreatedAt:    now,
		StartedAt:    &now,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	tasks := agent.BuildTasks(text, query)
	result, stats, runErr := s.pipeline.Run(ctx, tasks, func(e agent.Event) {
		if e.Status != agent.TaskRunning {
			return
		}
		// Stage updates are best effort; the run matters more than the progress row.
		if err := s.jobs.SetStage(ctx, job.ID, e.Task); err != nil {
			slog.Warn("failed to record job stage", "job_id", job.ID, "stage", e.Task, "error", err)
		}
	})
	if runErr != nil {
		return s.fail(ctx, job, fmt.Errorf("pipeline: %w", runErr))
	}

	rendered, err := docio.Render(result, format)
	if err != nil {
		return s.fail(ctx, job, fmt.Errorf("render output: %w", err))
	}

	key := filepath.ToSlash(filepath.Join("outputs", job.ID+format.Ext()))
	if _, err := s.store.Put(ctx, key, bytes.NewReader(rendered), storage.PutObjectOptions{
		Size:        int64(len(rendered)),
		ContentType: format.ContentType(),
	}); err != nil {
		return s.fail(ctx, job, fmt.Errorf("store output: %w", err))
	}

	finished := time.Now().UTC()
	if err := s.jobs.Complete(ctx, job.ID, key, stats.PromptTokens, stats.CompletionTokens, finished); err != nil {
		return nil, fmt.Errorf("complete job: %w", err)
	}

	job.Status = model.JobStatusCompleted
	job.Stage = tasks[len(tasks)-1].Name
	job.ResultPath = key
	job.PromptTokens = stats.PromptTokens
	job.CompletionTokens = stats.CompletionTokens
	job.FinishedAt = &finished
	return job, nil
}

// fail records a terminal failure on the job row. The write uses a context
// detached from cancellation so an aborted request still leaves a failed row.
func (s *transformService) fail(ctx context.Context, job *model.TransformJob, cause error) (*model.TransformJob, error) {
	finished := time.Now().UTC()
	if err := s.jobs.Fail(context.WithoutCancel(ctx), job.ID, cause.Error(), finished); err != nil {
		slog.Error("failed to record job failure", "job_id", job.ID, "error", err)
	}
	job.Status = model.JobStatusFailed
	job.Error = cause.Error()
	job.FinishedAt = &finished
	return job, cause
}

func (s *transformService) Get(ctx context.Context, id string) (*model.TransformJob, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *transformService) List(ctx context.Context, limit, offset int) (*JobListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.jobs.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &JobListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *transformService) Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *model.TransformJob, error) {
	job, err := s.completedJob(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}

	rc, info, err := s.store.Get(ctx, job.ResultPath)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, fmt.Errorf("fetch output object: %w", err)
	}
	return rc, info, job, nil
}

func (s *transformService) PresignOutput(ctx context.Context, id string, expiry time.Duration) (string, error) {
	job, err := s.completedJob(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, job.ResultPath, expiry)
}

// Preview renders the stored output as HTML. Markdown converts directly;
// other formats are re-extracted to text and shown preformatted.
func (s *transformService) Preview(ctx context.Context, id string) ([]byte, error) {
	job, err := s.completedJob(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, _, err := s.store.Get(ctx, job.ResultPath)
	if err != nil {
		return nil, fmt.Errorf("fetch output object: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read output object: %w", err)
	}

	format := docio.Format(job.OutputFormat)
	if format == docio.FormatMD {
		return docio.RenderHTML(string(data))
	}
	text, err := docio.Extract(data, format)
	if err != nil {
		return nil, fmt.Errorf("extract output text: %w", err)
	}
	return []byte("<pre>" + html.EscapeString(text) + "</pre>"), nil
}

func (s *transformService) completedJob(ctx context.Context, id string) (*model.TransformJob, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusCompleted || job.ResultPath == "" {
		return nil, ErrJobNotDone
	}
	return job, nil
}
