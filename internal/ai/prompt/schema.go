package prompt

import (
	"encoding/json"
	"fmt"
)

type Type string

const (
	TypeObject Type = "object"
	TypeArray  Type = "array"
	TypeString Type = "string"
)

// Schema describes the structured output a model must produce. It is a
// provider-neutral subset of JSON Schema; each backend translates it into
// its own representation.
type Schema struct {
	Type        Type
	Description string
	Format      string
	Nullable    bool
	Enum        []string
	Items       *Schema
	MinItems    int
	MaxItems    int
	Properties  map[string]*Schema
	// Order fixes the property order in rendered schemas.
	Order    []string
	Required []string
}

// JSONSchema renders s as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{}
	if s.Nullable {
		out["type"] = []string{string(s.Type), "null"}
	} else {
		out["type"] = string(s.Type)
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Format != "" {
		out["format"] = s.Format
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if s.MinItems > 0 {
		out["minItems"] = s.MinItems
	}
	if s.MaxItems > 0 {
		out["maxItems"] = s.MaxItems
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
		out["additionalProperties"] = false
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}

// String renders s as indented JSON Schema for embedding into prompt text.
func (s *Schema) String() string {
	b, err := json.MarshalIndent(s.JSONSchema(), "", "  ")
	if err != nil {
		return fmt.Sprintf("<invalid schema: %v>", err)
	}
	return string(b)
}

// CheckRequired reports the first required property that is missing or null
// in the JSON object raw.
func (s *Schema) CheckRequired(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode object: %w", err)
	}
	for _, name := range s.Required {
		v, ok := fields[name]
		if !ok || string(v) == "null" {
			return fmt.Errorf("missing required field %q", name)
		}
	}
	return nil
}

var ParsedTodoSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"title": {
			Type:        TypeString,
			Description: "Concise task title, 2 to 100 characters, without date, time or priority words.",
		},
		"due_at": {
			Type:        TypeString,
			Description: "Local due date and time in YYYY-MM-DDTHH:mm form without timezone, or null when no date or time is mentioned.",
			Nullable:    true,
		},
		"priority": {
			Type:        TypeString,
			Description: "Task priority.",
			Enum:        []string{"high", "medium", "low"},
		},
		"category": {
			Type:        TypeString,
			Description: "Short category such as work, personal, shopping, health, study, or null.",
			Nullable:    true,
		},
		"description": {
			Type:        TypeString,
			Description: "Extra details that do not fit in the title, or null.",
			Nullable:    true,
		},
	},
	Order:    []string{"title", "due_at", "priority", "category", "description"},
	Required: []string{"title", "priority"},
}

// MaxUrgentTasks caps TodoSummary.UrgentTasks.
const MaxUrgentTasks = 3

var TodoSummarySchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"summary": {
			Type:        TypeString,
			Description: "One or two sentence overview of the period.",
		},
		"urgentTasks": {
			Type:        TypeArray,
			Description: "Titles of the most urgent unfinished todos, most urgent first.",
			Items:       &Schema{Type: TypeString},
			MaxItems:    MaxUrgentTasks,
		},
		"insights": {
			Type:        TypeArray,
			Description: "Observations about completion, deadlines and work patterns.",
			Items:       &Schema{Type: TypeString},
			MinItems:    2,
			MaxItems:    4,
		},
		"recommendations": {
			Type:        TypeArray,
			Description: "Concrete, actionable suggestions.",
			Items:       &Schema{Type: TypeString},
			MinItems:    2,
			MaxItems:    3,
		},
	},
	Order:    []string{"summary", "urgentTasks", "insights", "recommendations"},
	Required: []string{"summary", "urgentTasks", "insights", "recommendations"},
}
