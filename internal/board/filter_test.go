package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 12, 0, 0, 0, time.UTC)
}

func dayPtr(d int) *time.Time {
	t := day(d)
	return &t
}

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: 1, Title: "Write docs", Description: "user guide", Priority: models.PriorityLow, Status: models.StatusTodo, CreatedAt: day(1)},
		{ID: 2, Title: "Fix login bug", Description: "", Priority: models.PriorityHigh, Status: models.StatusInProgress, CreatedAt: day(2), DueDate: dayPtr(10)},
		{ID: 3, Title: "Deploy", Description: "prod rollout", Priority: models.PriorityMedium, Status: models.StatusDone, Progress: 100, CreatedAt: day(3)},
		{ID: 4, Title: "write tests", Description: "login flow", Priority: models.PriorityHigh, Status: models.StatusTodo, CreatedAt: day(4), DueDate: dayPtr(5)},
	}
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilterSorted_NoFiltersIsPermutation(t *testing.T) {
	tasks := sampleTasks()
	p := DefaultViewParams()

	got := FilterSorted(tasks, p)
	require.Len(t, got, len(tasks))
	require.ElementsMatch(t, ids(tasks), ids(got))

	// Input must be untouched.
	require.Equal(t, sampleTasks(), tasks)
}

func TestFilterSorted_SearchIsCaseInsensitiveOverTitleAndDescription(t *testing.T) {
	p := DefaultViewParams()
	p.Search = "LOGIN"

	got := FilterSorted(sampleTasks(), p)
	// Matches "Fix login bug" by title and "write tests" by description.
	require.ElementsMatch(t, []int64{2, 4}, ids(got))
}

func TestFilterSorted_PriorityAndStatusFilters(t *testing.T) {
	p := DefaultViewParams()
	p.Priority = models.PriorityHigh
	require.ElementsMatch(t, []int64{2, 4}, ids(FilterSorted(sampleTasks(), p)))

	p = DefaultViewParams()
	p.Status = models.StatusDone
	require.ElementsMatch(t, []int64{3}, ids(FilterSorted(sampleTasks(), p)))
}

func TestFilterSorted_HideCompleted(t *testing.T) {
	p := DefaultViewParams()
	p.ShowCompleted = false
	require.ElementsMatch(t, []int64{1, 2, 4}, ids(FilterSorted(sampleTasks(), p)))
}

func TestFilterSorted_SortCreatedNewestFirst(t *testing.T) {
	p := DefaultViewParams()
	p.SortBy = SortCreated
	require.Equal(t, []int64{4, 3, 2, 1}, ids(FilterSorted(sampleTasks(), p)))
}

func TestFilterSorted_SortPriorityHighFirst(t *testing.T) {
	p := DefaultViewParams()
	p.SortBy = SortPriority
	// HIGH before MEDIUM before LOW; 2 before 4 because the sort is stable.
	require.Equal(t, []int64{2, 4, 3, 1}, ids(FilterSorted(sampleTasks(), p)))
}

func TestFilterSorted_SortTitle(t *testing.T) {
	p := DefaultViewParams()
	p.SortBy = SortTitle
	require.Equal(t, []int64{3, 2, 1, 4}, ids(FilterSorted(sampleTasks(), p)))
}

func TestFilterSorted_SortDueDateUndatedLast(t *testing.T) {
	p := DefaultViewParams()
	p.SortBy = SortDueDate
	got := ids(FilterSorted(sampleTasks(), p))
	// Dated tasks first, soonest first; undated keep their relative order.
	require.Equal(t, []int64{4, 2, 1, 3}, got)
}

func TestFilterSorted_StableOnEqualKeys(t *testing.T) {
	created := day(1)
	tasks := []models.Task{
		{ID: 1, Title: "a", Priority: models.PriorityHigh, Status: models.StatusTodo, CreatedAt: created},
		{ID: 2, Title: "b", Priority: models.PriorityHigh, Status: models.StatusTodo, CreatedAt: created},
		{ID: 3, Title: "c", Priority: models.PriorityHigh, Status: models.StatusTodo, CreatedAt: created},
	}

	for _, sortBy := range []SortBy{SortCreated, SortPriority, SortDueDate} {
		p := DefaultViewParams()
		p.SortBy = sortBy
		require.Equal(t, []int64{1, 2, 3}, ids(FilterSorted(tasks, p)), "sortBy=%s", sortBy)
	}
}
