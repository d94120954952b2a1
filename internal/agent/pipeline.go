package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"doctransform/internal/llm"
	"doctransform/internal/search"
)

var (
	taskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "pipeline_task_duration_seconds",
		Help: "Duration of each pipeline task, labeled by task name and outcome.",
	}, []string{"task", "status"})

	taskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_task_runs_total",
		Help: "Finished pipeline task executions, labeled by task name and outcome.",
	}, []string{"task", "status"})

	llmTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_llm_tokens_total",
		Help: "LLM tokens consumed by the pipeline, labeled by kind.",
	}, []string{"kind"})
)

// Event reports a task status change during a pipeline run.
type Event struct {
	Task   string
	Status TaskStatus
	Err    error
}

// EventFunc receives pipeline events. It is called synchronously from Run.
type EventFunc func(Event)

// Pipeline executes a task sequence against an LLM, strictly in order,
// injecting each task's context outputs and optional web search results
// into its prompt.
type Pipeline struct {
	llm    llm.Service
	search search.Service
}

func NewPipeline(llmSvc llm.Service, searchSvc search.Service) *Pipeline {
	return &Pipeline{llm: llmSvc, search: searchSvc}
}

// Run executes the tasks sequentially and returns the final task's output.
// The first failing task aborts the run; later tasks stay pending.
func (p *Pipeline) Run(ctx context.Context, tasks []*Task, onEvent EventFunc) (string, llm.CallStats, error) {
	emit := func(t *Task, err error) {
		if onEvent != nil {
			onEvent(Event{Task: t.Name, Status: t.Status, Err: err})
		}
	}

	var (
		total llm.CallStats
		final string
	)
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			t.Status = TaskFailed
			emit(t, err)
			return "", total, err
		}

		t.Status = TaskRunning
		emit(t, nil)

		start := time.Now()
		prompt := p.buildPrompt(ctx, t)
		out, stats, err := p.llm.Complete(ctx, t.Agent.SystemPrompt(), prompt)
		if err != nil {
			t.Status = TaskFailed
			taskDuration.WithLabelValues(t.Name, string(TaskFailed)).Observe(time.Since(start).Seconds())
			taskRuns.WithLabelValues(t.Name, string(TaskFailed)).Inc()
			emit(t, err)
			return "", total, fmt.Errorf("task %s: %w", t.Name, err)
		}

		t.Output = out
		t.Status = TaskCompleted
		total.Add(stats)
		taskDuration.WithLabelValues(t.Name, string(TaskCompleted)).Observe(time.Since(start).Seconds())
		taskRuns.WithLabelValues(t.Name, string(TaskCompleted)).Inc()
		llmTokens.WithLabelValues("prompt").Add(float64(stats.PromptTokens))
		llmTokens.WithLabelValues("completion").Add(float64(stats.CompletionTokens))
		emit(t, nil)

		final = out
	}
	return final, total, nil
}

// buildPrompt combines the task description with web search results and the
// outputs of its context tasks. A failed or absent search service degrades
// to a note in the prompt rather than aborting the run.
func (p *Pipeline) buildPrompt(ctx context.Context, t *Task) string {
	var sb strings.Builder
	sb.WriteString(t.Description)

	if t.UseSearch {
		var (
			results []search.Result
			err     error
		)
		if p.search == nil {
			err = search.ErrMissingAPIKey
		} else {
			results, err = p.search.Search(ctx, t.SearchQuery)
		}
		switch {
		case err != nil:
			slog.Warn("web search unavailable, continuing without results", "task", t.Name, "error", err)
			sb.WriteString("\n\nWEB SEARCH RESULTS:\nunavailable, rely on your own knowledge")
		case len(results) == 0:
			sb.WriteString("\n\nWEB SEARCH RESULTS:\nno results found")
		default:
			sb.WriteString("\n\nWEB SEARCH RESULTS:")
			for i, r := range results {
				fmt.Fprintf(&sb, "\n%d. %s\n   %s\n   %s", i+1, r.Title, r.Link, r.Snippet)
			}
		}
	}

	for _, dep := range t.Context {
		if dep.Output == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n\nOUTPUT OF THE %s TASK:\n%s", strings.ToUpper(dep.Name), dep.Output)
	}
	return sb.String()
}
