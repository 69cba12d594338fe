package prompt

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/adanyl0v/go-todo-ai/internal/ai/stats"
	"github.com/adanyl0v/go-todo-ai/internal/models"
)

const summaryInstruction = `You are a productivity coach reviewing a user's todo list.
Analyze the statistics below for the period "%s" and return ONLY a JSON object that matches the response schema.

Field guidance:
- summary: 1-2 sentences on how the period is going overall, mentioning the completion rate.
- urgentTasks: up to 3 titles copied exactly from the todo lists, chosen only among todos that are
  not completed AND (priority is high OR overdue OR due today). The "Urgent candidates" list already
  holds exactly those todos, most urgent first. Return an empty array if it is empty.
- insights: 2-4 observations grounded in the numbers (weak categories or priorities, overdue
  patterns, busiest time of day or weekday, deadline adherence).
- recommendations: 2-3 concrete, actionable suggestions that follow from the insights.

Write every string in %s. Be encouraging but honest. Do not invent todos or numbers.

%s`

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// BuildSummary builds the prompt that narrates s for period.
func (b *Builder) BuildSummary(s *stats.PeriodStats, period models.Period) Spec {
	return Spec{
		Name:   SpecSummarizeTodos,
		Prompt: fmt.Sprintf(summaryInstruction, periodLabel(s, period), b.Language, RenderStats(s, period)),
		Schema: TodoSummarySchema,
	}
}

func periodLabel(s *stats.PeriodStats, period models.Period) string {
	if period == models.PeriodWeek {
		return fmt.Sprintf("this week, %s ~ %s",
			s.WeekStart.Format(time.DateOnly), s.WeekEnd.Format(time.DateOnly))
	}
	return fmt.Sprintf("today, %s", s.Now.Format(time.DateOnly))
}

// RenderStats writes every aggregate of s as plain text, in a fixed order.
func RenderStats(s *stats.PeriodStats, period models.Period) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Current local time: %s (%s)\n\n", models.FormatLocalDateTime(s.Now), s.Now.Weekday())

	sb.WriteString("[Overall]\n")
	fmt.Fprintf(&sb, "- total: %d, completed: %d, in progress: %d, overdue: %d\n",
		s.Total, s.Completed, s.InProgress, s.Overdue)
	fmt.Fprintf(&sb, "- completion rate: %d%%\n", s.CompletionRate)
	fmt.Fprintf(&sb, "- deadline adherence: %d%% (%d of %d todos with a deadline completed)\n\n",
		s.DeadlineAdherenceRate, s.CompletedWithDeadline, s.WithDeadline)

	sb.WriteString("[By priority]\n")
	for _, p := range models.Priorities {
		ps := s.ByPriority[p]
		fmt.Fprintf(&sb, "- %s: %d/%d completed (%d%%)\n", p, ps.Completed, ps.Total, ps.Rate)
	}
	sb.WriteString("\n")

	sb.WriteString("[By category]\n")
	for _, name := range slices.Sorted(maps.Keys(s.ByCategory)) {
		cs := s.ByCategory[name]
		fmt.Fprintf(&sb, "- %s: %d total, %d completed (%d%%), %d overdue\n",
			name, cs.Total, cs.Completed, stats.Rate(cs.Completed, cs.Total), cs.Overdue)
	}
	sb.WriteString("\n")

	sb.WriteString("[Due time of day]\n")
	fmt.Fprintf(&sb, "- morning (00-12): %d, afternoon (12-17): %d, evening (17-21): %d, night (21-24): %d\n\n",
		s.TimeOfDay.Morning, s.TimeOfDay.Afternoon, s.TimeOfDay.Evening, s.TimeOfDay.Night)

	sb.WriteString("[Due day of week]\n- ")
	for i, n := range s.DayOfWeek {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %d", weekdayNames[i], n)
	}
	sb.WriteString("\n\n")

	sb.WriteString("[Overdue breakdown]\n")
	if s.Overdue == 0 {
		sb.WriteString("- none\n")
	} else {
		sb.WriteString("- by category: ")
		for i, name := range slices.Sorted(maps.Keys(s.OverdueByCategory)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s %d", name, s.OverdueByCategory[name])
		}
		sb.WriteString("\n- by priority: ")
		first := true
		for _, p := range models.Priorities {
			n, ok := s.OverdueByPriority[p]
			if !ok {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&sb, "%s %d", p, n)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "[Urgent candidates: %d]\n", len(s.Urgent))
	if len(s.Urgent) == 0 {
		sb.WriteString("- none\n")
	}
	for _, todo := range s.Urgent {
		sb.WriteString("- ")
		sb.WriteString(todoLine(todo, s.Now))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	todos := s.PeriodTodos(period)
	fmt.Fprintf(&sb, "[Todos due in period: %d]\n", len(todos))
	if len(todos) == 0 {
		sb.WriteString("- none\n")
	}
	for _, todo := range todos {
		sb.WriteString("- ")
		sb.WriteString(todoLine(todo, s.Now))
		sb.WriteString("\n")
	}

	return sb.String()
}

func todoLine(todo models.TodoSummaryInput, now time.Time) string {
	state := "open"
	switch {
	case todo.Completed:
		state = "done"
	case stats.IsOverdue(todo, now):
		state = "OVERDUE"
	}

	parts := []string{
		fmt.Sprintf("[%s] %s", state, todo.Title),
		"priority " + string(todo.Priority),
	}
	if todo.DueAt != nil {
		parts = append(parts, "due "+todo.DueAt.In(now.Location()).Format("2006-01-02 15:04"))
	}
	if todo.Category != nil && *todo.Category != "" {
		parts = append(parts, "category "+*todo.Category)
	}
	return strings.Join(parts, " | ")
}
