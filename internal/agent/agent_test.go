package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"doctransform/internal/llm"
	llmmocks "doctransform/internal/llm/mocks"
	"doctransform/internal/search"
	searchmocks "doctransform/internal/search/mocks"
)

func TestSystemPrompt(t *testing.T) {
	a := TemplateAnalyzer()
	prompt := a.SystemPrompt()

	assert.Contains(t, prompt, "You are Template Structure Analyst.")
	assert.Contains(t, prompt, "Your personal goal is: "+a.Goal)
	assert.Contains(t, prompt, a.Backstory)
}

func TestBuildTasks(t *testing.T) {
	tasks := BuildTasks("TEMPLATE BODY", "write about solar power")

	if !assert.Len(t, tasks, 4) {
		return
	}
	assert.Equal(t, "research", tasks[0].Name)
	assert.Equal(t, "template_analysis", tasks[1].Name)
	assert.Equal(t, "content_generation", tasks[2].Name)
	assert.Equal(t, "document_assembly", tasks[3].Name)

	assert.True(t, tasks[0].UseSearch)
	assert.Equal(t, "write about solar power", tasks[0].SearchQuery)
	assert.Contains(t, tasks[0].Description, "QUERY:\nwrite about solar power")
	assert.Contains(t, tasks[1].Description, "TEMPLATE:\nTEMPLATE BODY")
	assert.Contains(t, tasks[1].Description, "QUERY:\nwrite about solar power")
	assert.Contains(t, tasks[2].Description, "QUERY:\nwrite about solar power")
	assert.Contains(t, tasks[3].Description, "ORIGINAL TEMPLATE:\nTEMPLATE BODY")

	assert.Equal(t, []*Task{tasks[1], tasks[0]}, tasks[2].Context)
	assert.Equal(t, []*Task{tasks[1], tasks[2]}, tasks[3].Context)

	for _, task := range tasks {
		assert.Equal(t, TaskPending, task.Status)
	}
}

func TestPipelineRun(t *testing.T) {
	llmMock := new(llmmocks.MockService)
	searchMock := new(searchmocks.MockService)
	pipe := NewPipeline(llmMock, searchMock)

	searchMock.On("Search", mock.Anything, "q").
		Return([]search.Result{{Title: "Hit", Link: "https://x.example", Snippet: "useful"}}, nil).Once()

	outputs := map[string]string{
		"research":           "research report",
		"template_analysis":  `{"sections": []}`,
		"content_generation": "generated content",
		"document_assembly":  "# Final Document",
	}
	promptFor := func(name string) func(string) bool {
		return func(user string) bool {
			switch name {
			case "research":
				return strings.Contains(user, "WEB SEARCH RESULTS:") && strings.Contains(user, "Hit")
			case "template_analysis":
				return strings.Contains(user, "TEMPLATE:\nTEMPLATE BODY") &&
					strings.Contains(user, "QUERY:\nq")
			case "content_generation":
				return strings.Contains(user, "OUTPUT OF THE TEMPLATE_ANALYSIS TASK:") &&
					strings.Contains(user, "research report")
			case "document_assembly":
				return strings.Contains(user, "generated content")
			}
			return false
		}
	}
	for _, name := range []string{"research", "template_analysis", "content_generation", "document_assembly"} {
		llmMock.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(promptFor(name))).
			Return(outputs[name], llm.CallStats{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil).Once()
	}

	completedBefore := testutil.ToFloat64(taskRuns.WithLabelValues("document_assembly", string(TaskCompleted)))

	var events []Event
	tasks := BuildTasks("TEMPLATE BODY", "q")
	final, stats, err := pipe.Run(context.Background(), tasks, func(e Event) { events = append(events, e) })

	assert.NoError(t, err)
	assert.Equal(t, "# Final Document", final)
	assert.Equal(t, 40, stats.PromptTokens)
	assert.Equal(t, 20, stats.CompletionTokens)
	assert.Len(t, events, 8)
	assert.Equal(t, Event{Task: "research", Status: TaskRunning}, events[0])
	assert.Equal(t, Event{Task: "document_assembly", Status: TaskCompleted}, events[7])
	for _, task := range tasks {
		assert.Equal(t, TaskCompleted, task.Status)
	}
	assert.Equal(t, completedBefore+1, testutil.ToFloat64(taskRuns.WithLabelValues("document_assembly", string(TaskCompleted))))

	llmMock.AssertExpectations(t)
	searchMock.AssertExpectations(t)
}

func TestPipelineRunAbortsOnFailure(t *testing.T) {
	llmMock := new(llmmocks.MockService)
	searchMock := new(searchmocks.MockService)
	pipe := NewPipeline(llmMock, searchMock)

	failedBefore := testutil.ToFloat64(taskRuns.WithLabelValues("template_analysis", string(TaskFailed)))

	searchMock.On("Search", mock.Anything, "q").Return([]search.Result{}, nil).Once()

	llmMock.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("research report", llm.CallStats{TotalTokens: 5}, nil).Once()
	llmMock.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", llm.CallStats{}, assert.AnError).Once()

	tasks := BuildTasks("T", "q")
	_, _, err := pipe.Run(context.Background(), tasks, nil)

	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "task template_analysis")
	assert.Equal(t, TaskCompleted, tasks[0].Status)
	assert.Equal(t, TaskFailed, tasks[1].Status)
	assert.Equal(t, TaskPending, tasks[2].Status)
	assert.Equal(t, TaskPending, tasks[3].Status)
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(taskRuns.WithLabelValues("template_analysis", string(TaskFailed))))
	llmMock.AssertExpectations(t)
}

func TestPipelineRunWithoutSearchService(t *testing.T) {
	llmMock := new(llmmocks.MockService)
	pipe := NewPipeline(llmMock, nil)

	task := &Task{
		Name:        "research",
		Agent:       ResearchSpecialist(),
		Description: "desc",
		UseSearch:   true,
		SearchQuery: "q",
		Status:      TaskPending,
	}
	llmMock.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(user string) bool {
		return strings.Contains(user, "unavailable, rely on your own knowledge")
	})).Return("out", llm.CallStats{}, nil).Once()

	final, _, err := pipe.Run(context.Background(), []*Task{task}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "out", final)
	assert.Equal(t, TaskCompleted, task.Status)
	llmMock.AssertExpectations(t)
}

func TestPipelineSearchFailureDegrades(t *testing.T) {
	llmMock := new(llmmocks.MockService)
	searchMock := new(searchmocks.MockService)
	pipe := NewPipeline(llmMock, searchMock)

	searchMock.On("Search", mock.Anything, "q").Return(nil, assert.AnError).Once()

	task := &Task{
		Name:        "research",
		Agent:       ResearchSpecialist(),
		Description: "desc",
		UseSearch:   true,
		SearchQuery: "q",
		Status:      TaskPending,
	}
	llmMock.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(user string) bool {
		return strings.Contains(user, "unavailable, rely on your own knowledge")
	})).Return("out", llm.CallStats{}, nil).Once()

	final, _, err := pipe.Run(context.Background(), []*Task{task}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "out", final)
	llmMock.AssertExpectations(t)
}

func TestPipelineCancelledContext(t *testing.T) {
	pipe := NewPipeline(new(llmmocks.MockService), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := BuildTasks("T", "q")
	_, _, err := pipe.Run(ctx, tasks, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, TaskFailed, tasks[0].Status)
}
