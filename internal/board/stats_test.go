package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func TestComputeStats_Empty(t *testing.T) {
	require.Equal(t, Stats{}, ComputeStats(nil, time.Now()))
}

func TestComputeStats_CountsAddUp(t *testing.T) {
	now := day(15)
	tasks := []models.Task{
		{Status: models.StatusTodo, Priority: models.PriorityLow, Progress: 0},
		{Status: models.StatusInProgress, Priority: models.PriorityHigh, Progress: 50},
		{Status: models.StatusDone, Priority: models.PriorityHigh, Progress: 100},
		{Status: models.StatusTodo, Priority: models.PriorityMedium, Progress: 0, DueDate: dayPtr(10)},
	}

	s := ComputeStats(tasks, now)
	require.Equal(t, 4, s.Total)
	require.Equal(t, s.Total, s.Completed+s.InProgress+s.Todo)
	require.Equal(t, 1, s.Completed)
	require.Equal(t, 1, s.InProgress)
	require.Equal(t, 2, s.Todo)
	require.Equal(t, 1, s.Overdue)
	require.LessOrEqual(t, s.Overdue, s.Total-s.Completed)
	require.Equal(t, 2, s.High)
	require.Equal(t, 1, s.Medium)
	require.Equal(t, 1, s.Low)
}

func TestComputeStats_AvgProgressRounds(t *testing.T) {
	tasks := []models.Task{
		{Status: models.StatusTodo, Progress: 33},
		{Status: models.StatusTodo, Progress: 34},
		{Status: models.StatusTodo, Progress: 34},
	}
	// mean 33.67 rounds to 34
	require.Equal(t, 34, ComputeStats(tasks, time.Now()).AvgProgress)
}

func TestIsOverdue(t *testing.T) {
	now := day(15)

	overdue := models.Task{Status: models.StatusTodo, DueDate: dayPtr(14)}
	require.True(t, IsOverdue(overdue, now))

	// Same task, but done: never overdue.
	overdue.Status = models.StatusDone
	require.False(t, IsOverdue(overdue, now))

	future := models.Task{Status: models.StatusTodo, DueDate: dayPtr(16)}
	require.False(t, IsOverdue(future, now))

	undated := models.Task{Status: models.StatusTodo}
	require.False(t, IsOverdue(undated, now))
}
