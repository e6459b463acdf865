package board

import (
	"sort"
	"strings"

	"taskdeck/internal/models"
)

// SortBy selects the task ordering
type SortBy string

const (
	SortCreated  SortBy = "created"  // newest first
	SortPriority SortBy = "priority" // HIGH, MEDIUM, LOW
	SortTitle    SortBy = "title"    // lexicographic
	SortDueDate  SortBy = "due_date" // soonest first, undated last
)

// ViewMode is how the task list is laid out
type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// ViewParams are the filter and sort knobs for the derived task view.
// Zero-value Priority and Status mean "all".
type ViewParams struct {
	Search        string
	Priority      models.Priority
	Status        models.Status
	ShowCompleted bool
	SortBy        SortBy
	ViewMode      ViewMode
}

// DefaultViewParams shows everything, newest first
func DefaultViewParams() ViewParams {
	return ViewParams{
		ShowCompleted: true,
		SortBy:        SortCreated,
		ViewMode:      ViewList,
	}
}

// FilterSorted applies search, priority, status and completion filters,
// then a stable sort. It is pure: the input slice is never modified, and
// tasks with equal sort keys keep their relative order.
func FilterSorted(tasks []models.Task, p ViewParams) []models.Task {
	filtered := make([]models.Task, 0, len(tasks))
	query := strings.ToLower(strings.TrimSpace(p.Search))

	for _, t := range tasks {
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		if p.Priority != "" && t.Priority != p.Priority {
			continue
		}
		if p.Status != "" && t.Status != p.Status {
			continue
		}
		if !p.ShowCompleted && t.Status == models.StatusDone {
			continue
		}
		filtered = append(filtered, t)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch p.SortBy {
		case SortPriority:
			return a.Priority.Rank() < b.Priority.Rank()
		case SortTitle:
			return a.Title < b.Title
		case SortDueDate:
			if a.DueDate == nil && b.DueDate == nil {
				return false
			}
			if a.DueDate == nil {
				return false
			}
			if b.DueDate == nil {
				return true
			}
			return a.DueDate.Before(*b.DueDate)
		default: // SortCreated
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	return filtered
}
