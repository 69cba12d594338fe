package models

import (
	"fmt"
	"time"
)

// LocalDateTimeLayout is the wall-clock form exchanged with clients:
// no seconds and no zone offset.
const LocalDateTimeLayout = "2006-01-02T15:04"

// ParseLocalDateTime reads a LocalDateTimeLayout value as a wall-clock time
// in loc.
func ParseLocalDateTime(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(LocalDateTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid local date time %q: %w", value, err)
	}
	return t, nil
}

func FormatLocalDateTime(t time.Time) string {
	return t.Format(LocalDateTimeLayout)
}

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
)

func (p Period) Valid() bool {
	return p == PeriodToday || p == PeriodWeek
}

// ParsedTodo is a todo extracted from free-form text. It is never stored by
// the assistant; the client decides whether to save it.
type ParsedTodo struct {
	Title       string   `json:"title"`
	DueAt       *string  `json:"due_at"`
	Priority    Priority `json:"priority"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
}

type TodoSummary struct {
	Summary         string   `json:"summary"`
	UrgentTasks     []string `json:"urgentTasks"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}
