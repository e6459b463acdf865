package models

import (
	"encoding/json"
	"time"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Rank orders priorities for sorting, highest first
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Status of a task
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Group is a named collection of tasks
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Task is a unit of work belonging to a group
type Task struct {
	ID          int64      `json:"id"`
	GroupID     int64      `json:"group_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Comment is a text note attached to a task
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Comment   string    `json:"comment"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MaxCommentLen is the client-enforced comment length limit
const MaxCommentLen = 500

// ArchivedTask is a local-only snapshot of a task taken before it was
// deleted server-side. It never syncs back to the server.
type ArchivedTask struct {
	SnapshotID string    `json:"snapshot_id"`
	Task       `json:"task"`
	ArchivedAt time.Time `json:"archived_at"`
}

// User holds the authenticated user's details blob as returned by the
// login endpoint. The token itself is stored separately. Data is kept
// opaque: servers return anything from a plain string to a nested
// object, and the client only ever stores it back verbatim.
type User struct {
	Token string          `json:"token"`
	Data  json.RawMessage `json:"data"`
}

// TaskCounts is the tasks section of the dashboard payload
type TaskCounts struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completionRate"`
}

// PriorityCount is one row of the dashboard priority distribution
type PriorityCount struct {
	Priority Priority `json:"priority"`
	Count    int      `json:"count"`
}

// WeekdayCount is one bar of the dashboard weekly activity chart
type WeekdayCount struct {
	Day   string `json:"day"`
	Total int    `json:"total"`
}

// DashboardSummary is the server's pre-aggregated dashboard payload.
// Every field is optional on the wire; absent fields default to zero
// values at the API boundary.
type DashboardSummary struct {
	Groups      int             `json:"groups"`
	Tasks       TaskCounts      `json:"tasks"`
	Priority    []PriorityCount `json:"priority"`
	RecentTasks []Task          `json:"recentTasks"`
	WeeklyStats []WeekdayCount  `json:"weeklyStats,omitempty"`
}
