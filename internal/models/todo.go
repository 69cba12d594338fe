package models

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 2000
	MaxCategoryLength    = 50
)

// Todo is a stored task. CompletedAt is non-nil iff Completed is true.
type Todo struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	DueAt       *time.Time
	Priority    Priority
	Category    *string
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SummaryInput projects the todo onto the read-only view the summary
// pipeline consumes.
func (t *Todo) SummaryInput() TodoSummaryInput {
	return TodoSummaryInput{
		Title:     t.Title,
		Completed: t.Completed,
		DueAt:     t.DueAt,
		Priority:  t.Priority,
		Category:  t.Category,
		CreatedAt: t.CreatedAt,
	}
}

type TodoSummaryInput struct {
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueAt     *time.Time `json:"due_at"`
	Priority  Priority   `json:"priority"`
	Category  *string    `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
}
