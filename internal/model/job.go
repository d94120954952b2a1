package model

import "time"

// Job status values. A job always terminates in completed or failed.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// TransformJob records one run of the agent pipeline against a template.
// Stage holds the name of the last pipeline stage that reported progress,
// so a job row can be polled while the transform is still in flight.
type TransformJob struct {
	ID               string     `json:"id"`
	TemplateID       string     `json:"template_id"`
	Query            string     `json:"query"`
	OutputFormat     string     `json:"output_format"`
	Status           string     `json:"status"`
	Stage            string     `json:"stage,omitempty"`
	ResultPath       string     `json:"result_path,omitempty"`
	Error            string     `json:"error,omitempty"`
	PromptTokens     int        `json:"prompt_tokens"`
	CompletionTokens int        `json:"completion_tokens"`
	CreatedAt        time.Time  `json:"created_at"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}
