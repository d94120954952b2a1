package agent

import "fmt"

// TaskStatus tracks a task through the pipeline run.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task binds one agent to a unit of work. Context lists earlier tasks whose
// outputs are injected into this task's prompt.
type Task struct {
	Name           string
	Agent          Agent
	Description    string
	ExpectedOutput string
	Context        []*Task
	UseSearch      bool
	SearchQuery    string

	Status TaskStatus
	Output string
}

const (
	researchDescription = `Research relevant and up-to-date information related to the query.

1. Analyze the query to identify key topics, industries, and focus areas
2. Review the provided web search results for current information, statistics, trends, and insights
3. Synthesize the information into a comprehensive research report
4. Organize the research in a way that will be useful for content generation

Return a comprehensive research report with current information.`

	analysisDescription = `Analyze the provided document template thoroughly.

1. Identify the overall structure (sections, subsections, headers)
2. Note any formatting patterns (bullet points, numbering, indentation)
3. Identify placeholders or content areas that need to be replaced
4. Determine the document's style, tone, and voice
5. Create a detailed structural map of the document

Return a JSON object with the complete analysis.`

	generationDescription = `Using the template analysis, research findings, and the query, generate appropriate content.

1. Review the structure analysis from the template analysis task
2. Study the research findings carefully to incorporate current data and insights
3. Understand the query's requirements and focus
4. Generate content that addresses the query while fitting the template structure
5. Incorporate relevant statistics, trends, and information from the research
6. Ensure the content maintains consistent style, tone, and voice
7. Format the content according to the template's patterns

Return the generated content organized according to the template structure.`

	assemblyDescription = `Assemble the final document by combining the template structure and new content.

1. Review the template analysis and generated content
2. Integrate the new content into the template structure
3. Ensure formatting consistency throughout the document
4. Verify that all research data is correctly incorporated
5. Make adjustments as needed to maintain document coherence
6. Finalize the document, ensuring it looks professional and well-structured

Return the complete, transformed document as clean markdown.`
)

// BuildTasks assembles the four-task sequence for one transform run, binding
// the template text and query into the task descriptions.
func BuildTasks(templateText, query string) []*Task {
	research := &Task{
		Name:           "research",
		Agent:          ResearchSpecialist(),
		Description:    fmt.Sprintf("%s\n\nQUERY:\n%s", researchDescription, query),
		ExpectedOutput: "A detailed research report with current information related to the query",
		UseSearch:      true,
		SearchQuery:    query,
		Status:         TaskPending,
	}
	analysis := &Task{
		Name:           "template_analysis",
		Agent:          TemplateAnalyzer(),
		Description:    fmt.Sprintf("%s\n\nTEMPLATE:\n%s\n\nQUERY:\n%s", analysisDescription, templateText, query),
		ExpectedOutput: "A comprehensive structural analysis of the template in JSON format",
		Status:         TaskPending,
	}
	generation := &Task{
		Name:           "content_generation",
		Agent:          ContentGenerator(),
		Description:    fmt.Sprintf("%s\n\nQUERY:\n%s", generationDescription, query),
		ExpectedOutput: "Generated content that addresses the query and fits the template structure",
		Context:        []*Task{analysis, research},
		Status:         TaskPending,
	}
	assembly := &Task{
		Name:           "document_assembly",
		Agent:          DocumentAssembler(),
		Description:    fmt.Sprintf("%s\n\nORIGINAL TEMPLATE:\n%s", assemblyDescription, templateText),
		ExpectedOutput: "A complete, transformed document that maintains the template structure with new content",
		Context:        []*Task{analysis, generation},
		Status:         TaskPending,
	}
	return []*Task{research, analysis, generation, assembly}
}
