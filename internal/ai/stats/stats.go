// Package stats aggregates a todo collection into the statistics the
// summary prompt is built from.
package stats

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/adanyl0v/go-todo-ai/internal/models"
)

// Uncategorized buckets todos without a category.
const Uncategorized = "uncategorized"

type PriorityStats struct {
	Total     int
	Completed int
	Rate      int
}

type CategoryStats struct {
	Total     int
	Completed int
	Overdue   int
}

// TimeOfDay counts due times by local hour: morning [0,12), afternoon
// [12,17), evening [17,21), night [21,24).
type TimeOfDay struct {
	Morning   int
	Afternoon int
	Evening   int
	Night     int
}

type PeriodStats struct {
	Now time.Time

	Total          int
	Completed      int
	InProgress     int
	Overdue        int
	CompletionRate int

	ByPriority map[models.Priority]PriorityStats
	ByCategory map[string]CategoryStats

	WithDeadline          int
	CompletedWithDeadline int
	DeadlineAdherenceRate int

	TimeOfDay TimeOfDay
	// DayOfWeek is indexed by time.Weekday, Sunday first.
	DayOfWeek [7]int

	OverdueByCategory map[string]int
	OverdueByPriority map[models.Priority]int

	WeekStart time.Time
	WeekEnd   time.Time

	Today []models.TodoSummaryInput
	Week  []models.TodoSummaryInput

	// Urgent holds incomplete todos that are overdue, due today or high
	// priority, in that order of precedence.
	Urgent []models.TodoSummaryInput
}

// PeriodTodos returns the todos due within p.
func (s *PeriodStats) PeriodTodos(p models.Period) []models.TodoSummaryInput {
	if p == models.PeriodWeek {
		return s.Week
	}
	return s.Today
}

// Rate returns round(part/total*100), or 0 when total is 0.
func Rate(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// IsOverdue reports whether todo is incomplete and its due time is before now.
func IsOverdue(todo models.TodoSummaryInput, now time.Time) bool {
	return !todo.Completed && todo.DueAt != nil && todo.DueAt.Before(now)
}

// WeekBounds returns Monday 00:00:00.000 and Sunday 23:59:59.999 of the week
// containing now, in now's location.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	weekday := int(now.Weekday())
	sinceMonday := weekday - 1
	if weekday == 0 {
		sinceMonday = 6
	}

	y, m, d := now.Date()
	start := time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, d-sinceMonday+6, 23, 59, 59, int(999*time.Millisecond), now.Location())
	return start, end
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func categoryKey(category *string) string {
	if category == nil || *category == "" {
		return Uncategorized
	}
	return *category
}

func bucketHour(dist *TimeOfDay, hour int) {
	switch {
	case hour < 12:
		dist.Morning++
	case hour < 17:
		dist.Afternoon++
	case hour < 21:
		dist.Evening++
	default:
		dist.Night++
	}
}

// Compute aggregates todos relative to now. Calendar decisions (today, the
// week window, hour and weekday buckets) use now's location.
func Compute(todos []models.TodoSummaryInput, now time.Time) *PeriodStats {
	loc := now.Location()
	weekStart, weekEnd := WeekBounds(now)

	s := &PeriodStats{
		Now:               now,
		Total:             len(todos),
		ByPriority:        make(map[models.Priority]PriorityStats, len(models.Priorities)),
		ByCategory:        make(map[string]CategoryStats),
		OverdueByCategory: make(map[string]int),
		OverdueByPriority: make(map[models.Priority]int, len(models.Priorities)),
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
	}
	for _, p := range models.Priorities {
		s.ByPriority[p] = PriorityStats{}
	}

	for _, todo := range todos {
		overdue := IsOverdue(todo, now)
		category := categoryKey(todo.Category)

		ps := s.ByPriority[todo.Priority]
		ps.Total++

		cs := s.ByCategory[category]
		cs.Total++

		if todo.Completed {
			s.Completed++
			ps.Completed++
			cs.Completed++
		}
		if overdue {
			s.Overdue++
			cs.Overdue++
			s.OverdueByCategory[category]++
			s.OverdueByPriority[todo.Priority]++
		}
		s.ByPriority[todo.Priority] = ps
		s.ByCategory[category] = cs

		if rank := urgency(todo, now, overdue); rank < notUrgent {
			s.Urgent = append(s.Urgent, todo)
		}

		if todo.DueAt == nil {
			continue
		}

		s.WithDeadline++
		if todo.Completed {
			s.CompletedWithDeadline++
		}

		due := todo.DueAt.In(loc)
		bucketHour(&s.TimeOfDay, due.Hour())
		s.DayOfWeek[due.Weekday()]++

		if sameDate(due, now) {
			s.Today = append(s.Today, todo)
		}
		if !due.Before(weekStart) && !due.After(weekEnd) {
			s.Week = append(s.Week, todo)
		}
	}

	s.InProgress = s.Total - s.Completed
	s.CompletionRate = Rate(s.Completed, s.Total)
	s.DeadlineAdherenceRate = Rate(s.CompletedWithDeadline, s.WithDeadline)
	for p, ps := range s.ByPriority {
		ps.Rate = Rate(ps.Completed, ps.Total)
		s.ByPriority[p] = ps
	}

	slices.SortStableFunc(s.Urgent, func(a, b models.TodoSummaryInput) int {
		return cmp.Compare(urgency(a, now, IsOverdue(a, now)), urgency(b, now, IsOverdue(b, now)))
	})

	return s
}

const (
	urgentOverdue = iota
	urgentToday
	urgentHighPriority
	notUrgent
)

func urgency(todo models.TodoSummaryInput, now time.Time, overdue bool) int {
	switch {
	case todo.Completed:
		return notUrgent
	case overdue:
		return urgentOverdue
	case todo.DueAt != nil && sameDate(todo.DueAt.In(now.Location()), now):
		return urgentToday
	case todo.Priority == models.PriorityHigh:
		return urgentHighPriority
	}
	return notUrgent
}
