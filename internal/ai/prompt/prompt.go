// Package prompt renders model prompts and the output schemas that constrain
// the model's reply. Building a prompt performs no I/O.
package prompt

const (
	SpecParseTodo      = "parse_todo"
	SpecSummarizeTodos = "summarize_todos"
)

// Spec bundles the prompt text with the schema the reply must satisfy.
type Spec struct {
	Name   string
	Prompt string
	Schema *Schema
}

type Builder struct {
	// Language is the natural language narrative output is written in.
	Language string
}

func NewBuilder(language string) *Builder {
	if language == "" {
		language = "Korean"
	}
	return &Builder{Language: language}
}
