package board

import (
	"math"
	"time"

	"taskdeck/internal/models"
)

// Stats are pure aggregates over a task list
type Stats struct {
	Total       int
	Completed   int
	InProgress  int
	Todo        int
	Overdue     int
	High        int
	Medium      int
	Low         int
	AvgProgress int
}

// IsOverdue reports whether a task's due date has passed without the
// task being done. Undated tasks are never overdue.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.DueDate == nil || t.Status == models.StatusDone {
		return false
	}
	return t.DueDate.Before(now)
}

// ComputeStats aggregates counts and the integer-rounded mean progress
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	s := Stats{Total: len(tasks)}

	progressSum := 0
	for _, t := range tasks {
		switch t.Status {
		case models.StatusDone:
			s.Completed++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusTodo:
			s.Todo++
		}

		switch t.Priority {
		case models.PriorityHigh:
			s.High++
		case models.PriorityMedium:
			s.Medium++
		case models.PriorityLow:
			s.Low++
		}

		if IsOverdue(t, now) {
			s.Overdue++
		}
		progressSum += t.Progress
	}

	if s.Total > 0 {
		s.AvgProgress = int(math.Round(float64(progressSum) / float64(s.Total)))
	}
	return s
}

// Stats aggregates over the board's full (unfiltered) task list
func (b *Board) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ComputeStats(b.tasks, time.Now())
}
