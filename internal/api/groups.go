package api

import (
	"context"
	"fmt"
	"net/http"

	"taskdeck/internal/models"
)

// GroupInput carries the writable group fields
type GroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListGroups returns all groups visible to the current user
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.do(ctx, http.MethodGet, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup creates a group
func (c *Client) CreateGroup(ctx context.Context, in GroupInput) error {
	return c.do(ctx, http.MethodPost, "/groups", in, nil)
}

// UpdateGroup updates a group
func (c *Client) UpdateGroup(ctx context.Context, id int64, in GroupInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/groups/%d", id), in, nil)
}

// DeleteGroup deletes a group and, server-side, all its tasks
func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d", id), nil, nil)
}
