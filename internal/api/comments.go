package api

import (
	"context"
	"fmt"
	"net/http"

	"taskdeck/internal/models"
)

type commentBody struct {
	Comment string `json:"comment"`
}

// ListComments returns all comments on a task
func (c *Client) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/comments/%d", taskID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment adds a comment to a task
func (c *Client) AddComment(ctx context.Context, taskID int64, text string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/comments/%d", taskID), commentBody{Comment: text}, nil)
}

// UpdateComment replaces a comment's text
func (c *Client) UpdateComment(ctx context.Context, commentID int64, text string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/comments/%d", commentID), commentBody{Comment: text}, nil)
}

// DeleteComment deletes a comment
func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", commentID), nil, nil)
}
