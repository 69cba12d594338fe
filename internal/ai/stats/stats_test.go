package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-todo-ai/internal/models"
)

var seoul = time.FixedZone("KST", 9*60*60)

func at(year int, month time.Month, day, hour, minute int) *time.Time {
	t := time.Date(year, month, day, hour, minute, 0, 0, seoul)
	return &t
}

func strPtr(s string) *string {
	return &s
}

func todo(title string, completed bool, due *time.Time, p models.Priority, category *string) models.TodoSummaryInput {
	return models.TodoSummaryInput{
		Title:     title,
		Completed: completed,
		DueAt:     due,
		Priority:  p,
		Category:  category,
	}
}

func TestCompute_TotalsScenario(t *testing.T) {
	// Tuesday 09:00.
	now := *at(2026, time.February, 17, 9, 0)

	todos := []models.TodoSummaryInput{
		todo("done 1", true, at(2026, time.February, 10, 10, 0), models.PriorityHigh, strPtr("work")),
		todo("done 2", true, nil, models.PriorityLow, nil),
		todo("done 3", true, at(2026, time.February, 17, 8, 0), models.PriorityMedium, strPtr("work")),
		todo("done 4", true, nil, models.PriorityMedium, strPtr("home")),
		todo("overdue 1", false, at(2026, time.February, 16, 18, 0), models.PriorityHigh, strPtr("work")),
		todo("overdue 2", false, at(2026, time.February, 17, 8, 59), models.PriorityMedium, nil),
		todo("open 1", false, at(2026, time.February, 17, 15, 0), models.PriorityHigh, strPtr("work")),
		todo("open 2", false, at(2026, time.February, 20, 22, 0), models.PriorityLow, strPtr("home")),
		todo("open 3", false, nil, models.PriorityLow, nil),
		todo("open 4", false, at(2026, time.March, 2, 9, 0), models.PriorityMedium, strPtr("study")),
	}

	s := Compute(todos, now)

	assert.Equal(t, 10, s.Total)
	assert.Equal(t, 4, s.Completed)
	assert.Equal(t, 6, s.InProgress)
	assert.Equal(t, 2, s.Overdue)
	assert.Equal(t, 40, s.CompletionRate)

	assert.Equal(t, PriorityStats{Total: 3, Completed: 1, Rate: 33}, s.ByPriority[models.PriorityHigh])
	assert.Equal(t, PriorityStats{Total: 4, Completed: 2, Rate: 50}, s.ByPriority[models.PriorityMedium])
	assert.Equal(t, PriorityStats{Total: 3, Completed: 1, Rate: 33}, s.ByPriority[models.PriorityLow])

	assert.Equal(t, CategoryStats{Total: 4, Completed: 2, Overdue: 1}, s.ByCategory["work"])
	assert.Equal(t, CategoryStats{Total: 3, Completed: 1, Overdue: 1}, s.ByCategory[Uncategorized])
	assert.Equal(t, CategoryStats{Total: 1, Completed: 0, Overdue: 0}, s.ByCategory["study"])

	assert.Equal(t, map[string]int{"work": 1, Uncategorized: 1}, s.OverdueByCategory)
	assert.Equal(t, map[models.Priority]int{models.PriorityHigh: 1, models.PriorityMedium: 1}, s.OverdueByPriority)

	// 7 todos have a deadline, 2 of them are completed.
	assert.Equal(t, 7, s.WithDeadline)
	assert.Equal(t, 2, s.CompletedWithDeadline)
	assert.Equal(t, 29, s.DeadlineAdherenceRate)

	assert.Equal(t, TimeOfDay{Morning: 4, Afternoon: 1, Evening: 1, Night: 1}, s.TimeOfDay)

	assert.Equal(t, 4, s.DayOfWeek[time.Tuesday])
	assert.Equal(t, 2, s.DayOfWeek[time.Monday])
	assert.Equal(t, 1, s.DayOfWeek[time.Friday])
	assert.Zero(t, s.DayOfWeek[time.Sunday])

	titles := func(list []models.TodoSummaryInput) []string {
		out := make([]string, 0, len(list))
		for _, td := range list {
			out = append(out, td.Title)
		}
		return out
	}
	assert.Equal(t, []string{"done 3", "overdue 2", "open 1"}, titles(s.Today))
	assert.Equal(t, []string{"done 3", "overdue 1", "overdue 2", "open 1", "open 2"}, titles(s.Week))
	assert.Equal(t, []string{"overdue 1", "overdue 2", "open 1"}, titles(s.Urgent))
	assert.Equal(t, s.Week, s.PeriodTodos(models.PeriodWeek))
	assert.Equal(t, s.Today, s.PeriodTodos(models.PeriodToday))
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, time.Now())

	assert.Zero(t, s.Total)
	assert.Zero(t, s.CompletionRate)
	assert.Zero(t, s.DeadlineAdherenceRate)
	require.Len(t, s.ByPriority, 3)
	for _, ps := range s.ByPriority {
		assert.Zero(t, ps.Rate)
	}
	assert.Empty(t, s.Today)
	assert.Empty(t, s.Week)
}

func TestCompute_TotalsInvariant(t *testing.T) {
	now := *at(2026, time.May, 6, 12, 0)
	priorities := models.Priorities

	var todos []models.TodoSummaryInput
	for i := 0; i < 37; i++ {
		var due *time.Time
		if i%3 != 0 {
			due = at(2026, time.May, 1+i%10, i%24, 0)
		}
		todos = append(todos, todo("t", i%4 == 0, due, priorities[i%3], nil))

		s := Compute(todos, now)
		assert.Equal(t, s.Total, s.Completed+s.InProgress)
		assert.Equal(t, Rate(s.Completed, s.Total), s.CompletionRate)

		overdue := 0
		for _, td := range todos {
			if !td.Completed && td.DueAt != nil && td.DueAt.Before(now) {
				overdue++
			}
		}
		assert.Equal(t, overdue, s.Overdue)
	}
}

func TestCompute_UrgentOrdering(t *testing.T) {
	now := *at(2026, time.February, 17, 9, 0)

	todos := []models.TodoSummaryInput{
		todo("high no deadline", false, nil, models.PriorityHigh, nil),
		todo("low due today", false, at(2026, time.February, 17, 20, 0), models.PriorityLow, nil),
		todo("high done", true, nil, models.PriorityHigh, nil),
		todo("medium next week", false, at(2026, time.February, 24, 9, 0), models.PriorityMedium, nil),
		todo("low overdue", false, at(2026, time.February, 1, 9, 0), models.PriorityLow, nil),
	}

	s := Compute(todos, now)

	require.Len(t, s.Urgent, 3)
	assert.Equal(t, "low overdue", s.Urgent[0].Title)
	assert.Equal(t, "low due today", s.Urgent[1].Title)
	assert.Equal(t, "high no deadline", s.Urgent[2].Title)
}

func TestIsOverdue(t *testing.T) {
	now := *at(2026, time.February, 17, 9, 0)

	tests := []struct {
		name string
		todo models.TodoSummaryInput
		want bool
	}{
		{"past and open", todo("a", false, at(2026, time.February, 17, 8, 59), models.PriorityLow, nil), true},
		{"past but completed", todo("a", true, at(2026, time.February, 1, 0, 0), models.PriorityLow, nil), false},
		{"exactly now", todo("a", false, at(2026, time.February, 17, 9, 0), models.PriorityLow, nil), false},
		{"future", todo("a", false, at(2026, time.February, 18, 9, 0), models.PriorityLow, nil), false},
		{"no deadline", todo("a", false, nil, models.PriorityLow, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(tt.todo, now))
		})
	}
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
	}{
		{"monday", *at(2026, time.February, 16, 0, 0), *at(2026, time.February, 16, 0, 0)},
		{"tuesday", *at(2026, time.February, 17, 9, 0), *at(2026, time.February, 16, 0, 0)},
		{"sunday belongs to previous monday", *at(2026, time.February, 22, 23, 30), *at(2026, time.February, 16, 0, 0)},
		{"across month boundary", *at(2026, time.March, 1, 10, 0), *at(2026, time.February, 23, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.now)
			assert.True(t, tt.wantStart.Equal(start), "start = %v", start)
			assert.Equal(t, time.Monday, start.Weekday())
			assert.Equal(t, time.Sunday, end.Weekday())
			assert.Equal(t, 7*24*time.Hour-time.Millisecond, end.Sub(start))
		})
	}
}

func TestCompute_TimeOfDayBoundaries(t *testing.T) {
	now := *at(2026, time.February, 17, 9, 0)
	hours := []int{0, 11, 12, 16, 17, 20, 21, 23}

	var todos []models.TodoSummaryInput
	for _, h := range hours {
		todos = append(todos, todo("t", false, at(2026, time.February, 18, h, 0), models.PriorityLow, nil))
	}

	s := Compute(todos, now)
	assert.Equal(t, TimeOfDay{Morning: 2, Afternoon: 2, Evening: 2, Night: 2}, s.TimeOfDay)
}

func TestCompute_BucketsInReferenceLocation(t *testing.T) {
	// 15:30 UTC is 00:30 the next day in Seoul.
	due := time.Date(2026, time.February, 17, 15, 30, 0, 0, time.UTC)
	now := *at(2026, time.February, 18, 8, 0)

	s := Compute([]models.TodoSummaryInput{todo("t", false, &due, models.PriorityHigh, nil)}, now)

	assert.Equal(t, 1, s.TimeOfDay.Morning)
	assert.Equal(t, 1, s.DayOfWeek[time.Wednesday])
	assert.Len(t, s.Today, 1)
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0, Rate(0, 0))
	assert.Equal(t, 0, Rate(0, 5))
	assert.Equal(t, 100, Rate(3, 3))
	assert.Equal(t, 33, Rate(1, 3))
	assert.Equal(t, 67, Rate(2, 3))
	assert.Equal(t, 50, Rate(1, 2))
	assert.Equal(t, 13, Rate(1, 8))
}
