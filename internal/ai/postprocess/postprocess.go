// Package postprocess repairs a model's structured output against the todo
// domain rules before it is returned to a client.
package postprocess

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/adanyl0v/go-todo-ai/internal/models"
)

const (
	// DefaultTitle replaces titles shorter than MinTitleLength.
	DefaultTitle   = "새 할 일"
	MinTitleLength = 2
	Ellipsis       = "…"
)

// RawTodo is the parse reply exactly as the model produced it.
type RawTodo struct {
	Title       string  `json:"title"`
	DueAt       *string `json:"due_at"`
	Priority    string  `json:"priority"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// dueLayouts are tried in order; the first is what the prompt asks for.
var dueLayouts = []string{
	models.LocalDateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParsedTodo normalizes raw relative to the reference time now.
func ParsedTodo(raw RawTodo, now time.Time) models.ParsedTodo {
	return models.ParsedTodo{
		Title:       Title(raw.Title),
		DueAt:       DueAt(raw.DueAt, now),
		Priority:    Priority(raw.Priority),
		Category:    clamp(optional(raw.Category), models.MaxCategoryLength),
		Description: clamp(optional(raw.Description), models.MaxDescriptionLength),
	}
}

// Title trims title, substitutes DefaultTitle when it is too short and cuts
// it at the last word boundary within models.MaxTitleLength characters.
func Title(title string) string {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < MinTitleLength {
		return DefaultTitle
	}

	runes := []rune(title)
	if len(runes) <= models.MaxTitleLength {
		return title
	}

	cut := runes[:models.MaxTitleLength]
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			cut = cut[:i]
			break
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + Ellipsis
}

// DueAt parses raw as a local date time in now's location. A value more than
// a year after now is moved into now's year; anything earlier, past dates
// included, passes through. Unparsable values yield nil.
func DueAt(raw *string, now time.Time) *string {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}

	due, ok := parseDue(value, now.Location())
	if !ok {
		return nil
	}

	if due.After(now.AddDate(1, 0, 0)) {
		due = time.Date(now.Year(), due.Month(), due.Day(),
			due.Hour(), due.Minute(), 0, 0, due.Location())
	}

	out := models.FormatLocalDateTime(due)
	return &out
}

func parseDue(value string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	// Models occasionally add an offset despite the schema.
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// Priority returns p when it is a known priority and medium otherwise.
func Priority(p string) models.Priority {
	if priority := models.Priority(p); priority.Valid() {
		return priority
	}
	return models.PriorityMedium
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func clamp(s *string, limit int) *string {
	if s == nil {
		return nil
	}
	runes := []rune(*s)
	if len(runes) <= limit {
		return s
	}
	clamped := strings.TrimSpace(string(runes[:limit]))
	return &clamped
}
