package board

import (
	"strings"

	"taskdeck/internal/models"
)

// weekdays in chart order
var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// PrioritySlice is one wedge of the priority distribution chart
type PrioritySlice struct {
	Name  string
	Value int
}

// PriorityChart reshapes the dashboard priority rows into chart tuples
// with title-cased labels. Unknown priorities are kept, not dropped.
func PriorityChart(summary models.DashboardSummary) []PrioritySlice {
	slices := make([]PrioritySlice, 0, len(summary.Priority))
	for _, p := range summary.Priority {
		name := string(p.Priority)
		if name == "" {
			name = "Unknown"
		} else {
			name = strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
		}
		slices = append(slices, PrioritySlice{Name: name, Value: p.Count})
	}
	return slices
}

// WeeklyChart returns one bar per weekday. The server's weeklyStats win
// when present; otherwise recent tasks are bucketed by the weekday of
// their last update (falling back to creation time); with neither, a
// zeroed week.
func WeeklyChart(summary models.DashboardSummary) []models.WeekdayCount {
	if len(summary.WeeklyStats) > 0 {
		return summary.WeeklyStats
	}

	byDay := make(map[string]int)
	for _, t := range summary.RecentTasks {
		when := t.UpdatedAt
		if when.IsZero() {
			when = t.CreatedAt
		}
		byDay[when.Format("Mon")]++
	}

	week := make([]models.WeekdayCount, 0, len(weekdays))
	for _, day := range weekdays {
		week = append(week, models.WeekdayCount{Day: day, Total: byDay[day]})
	}
	return week
}
