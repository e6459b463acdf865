package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskdeck/internal/models"
)

// TaskInput carries the writable task fields. Server-assigned fields
// (id, created_at, updated_at) never appear here.
type TaskInput struct {
	GroupID     int64           `json:"group_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    models.Priority `json:"priority"`
	Status      models.Status   `json:"status"`
	Progress    int             `json:"progress"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// taskStatePatch is the partial update body used for status and progress
// changes (start, complete, progress slider).
type taskStatePatch struct {
	Status   models.Status `json:"status"`
	Progress int           `json:"progress"`
}

// ListTasksByGroup returns every task in the group
func (c *Client) ListTasksByGroup(ctx context.Context, groupID int64) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/group/%d", groupID), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task
func (c *Client) CreateTask(ctx context.Context, in TaskInput) error {
	return c.do(ctx, http.MethodPost, "/tasks", in, nil)
}

// UpdateTask replaces a task's writable fields
func (c *Client) UpdateTask(ctx context.Context, id int64, in TaskInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), in, nil)
}

// SetTaskState updates only status and progress
func (c *Client) SetTaskState(ctx context.Context, id int64, status models.Status, progress int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), taskStatePatch{Status: status, Progress: progress}, nil)
}

// DeleteTask deletes a task server-side
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}
