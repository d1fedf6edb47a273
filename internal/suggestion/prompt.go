package suggestion

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/phrazzld/tasksage-api/internal/domain"
)

// SystemPrompt frames every request to a language model.
const SystemPrompt = `You are a productivity assistant. Given a task description, ` +
	`provide a brief, actionable suggestion to help complete it efficiently. ` +
	`Keep responses under 100 words.`

// promptData represents the data passed to the prompt templates
type promptData struct {
	System      string
	Title       string
	Description string
	Priority    string
	Due         string
}

var (
	taskBlock = `Task: {{.Title}}
Description: {{.Description}}
Priority: {{.Priority}}
Due: {{.Due}}
`

	localPromptTemplate = template.Must(template.New("local").Parse(
		"{{.System}}\n\n" + taskBlock + "\nSuggest how to approach this task effectively:"))

	cloudPromptTemplate = template.Must(template.New("cloud").Parse(
		taskBlock + "\nSuggest how to approach this task effectively."))
)

func newPromptData(task domain.TaskSnapshot) promptData {
	data := promptData{
		System:      SystemPrompt,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Due:         "No deadline",
	}
	if data.Description == "" {
		data.Description = "No description"
	}
	if task.DueDate != nil {
		data.Due = task.DueDate.Format(time.RFC3339)
	}
	return data
}

func render(tmpl *template.Template, task domain.TaskSnapshot) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newPromptData(task)); err != nil {
		// Templates are fixed and only reference string fields.
		panic(fmt.Sprintf("suggestion: executing %s prompt template: %v", tmpl.Name(), err))
	}
	return buf.String()
}

// BuildLocalPrompt renders the single-string prompt sent to the local
// cluster, with the system prompt inlined.
func BuildLocalPrompt(task domain.TaskSnapshot) string {
	return render(localPromptTemplate, task)
}

// BuildCloudPrompt renders the user prompt sent to the cloud model. The
// system prompt travels separately as a system instruction.
func BuildCloudPrompt(task domain.TaskSnapshot) string {
	return render(cloudPromptTemplate, task)
}
