package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func TestPriorityChart_TitleCasesLabels(t *testing.T) {
	summary := models.DashboardSummary{
		Priority: []models.PriorityCount{
			{Priority: models.PriorityHigh, Count: 3},
			{Priority: "", Count: 1},
		},
	}

	got := PriorityChart(summary)
	require.Equal(t, []PrioritySlice{
		{Name: "High", Value: 3},
		{Name: "Unknown", Value: 1},
	}, got)
}

func TestWeeklyChart_PrefersServerStats(t *testing.T) {
	summary := models.DashboardSummary{
		WeeklyStats: []models.WeekdayCount{{Day: "Mon", Total: 5}},
		RecentTasks: []models.Task{{UpdatedAt: time.Now()}},
	}
	require.Equal(t, summary.WeeklyStats, WeeklyChart(summary))
}

func TestWeeklyChart_FallsBackToRecentTaskBuckets(t *testing.T) {
	// 2026-09-01 is a Tuesday, 2026-09-06 a Sunday.
	tue := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	sun := time.Date(2026, 9, 6, 10, 0, 0, 0, time.UTC)

	summary := models.DashboardSummary{
		RecentTasks: []models.Task{
			{UpdatedAt: tue},
			{CreatedAt: tue}, // no update, falls back to created_at
			{UpdatedAt: sun},
		},
	}

	got := WeeklyChart(summary)
	require.Len(t, got, 7)
	require.Equal(t, models.WeekdayCount{Day: "Sun", Total: 1}, got[0])
	require.Equal(t, models.WeekdayCount{Day: "Tue", Total: 2}, got[2])
}

func TestWeeklyChart_EmptyPayloadYieldsZeroWeek(t *testing.T) {
	got := WeeklyChart(models.DashboardSummary{})
	require.Len(t, got, 7)
	for _, w := range got {
		require.Zero(t, w.Total)
	}
}
