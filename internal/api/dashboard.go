package api

import (
	"context"
	"net/http"

	"taskdeck/internal/models"
)

// FetchDashboard returns the server's pre-aggregated dashboard payload.
// Optional fields absent on the wire come back as zero values; slices are
// normalized to non-nil so consumers can range without guards.
func (c *Client) FetchDashboard(ctx context.Context) (models.DashboardSummary, error) {
	var summary models.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &summary); err != nil {
		return models.DashboardSummary{}, err
	}
	if summary.Priority == nil {
		summary.Priority = []models.PriorityCount{}
	}
	if summary.RecentTasks == nil {
		summary.RecentTasks = []models.Task{}
	}
	return summary, nil
}
