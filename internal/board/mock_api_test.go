package board

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
)

type apiMock struct {
	mock.Mock
}

func (m *apiMock) ListGroups(ctx context.Context) ([]models.Group, error) {
	args := m.Called(ctx)

	var groups []models.Group
	if value := args.Get(0); value != nil {
		groups = value.([]models.Group)
	}
	return groups, args.Error(1)
}

func (m *apiMock) CreateGroup(ctx context.Context, in api.GroupInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *apiMock) UpdateGroup(ctx context.Context, id int64, in api.GroupInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *apiMock) DeleteGroup(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *apiMock) ListTasksByGroup(ctx context.Context, groupID int64) ([]models.Task, error) {
	args := m.Called(ctx, groupID)

	var tasks []models.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]models.Task)
	}
	return tasks, args.Error(1)
}

func (m *apiMock) CreateTask(ctx context.Context, in api.TaskInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *apiMock) UpdateTask(ctx context.Context, id int64, in api.TaskInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *apiMock) SetTaskState(ctx context.Context, id int64, status models.Status, progress int) error {
	return m.Called(ctx, id, status, progress).Error(0)
}

func (m *apiMock) DeleteTask(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *apiMock) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	args := m.Called(ctx, taskID)

	var comments []models.Comment
	if value := args.Get(0); value != nil {
		comments = value.([]models.Comment)
	}
	return comments, args.Error(1)
}

func (m *apiMock) AddComment(ctx context.Context, taskID int64, text string) error {
	return m.Called(ctx, taskID, text).Error(0)
}

func (m *apiMock) UpdateComment(ctx context.Context, commentID int64, text string) error {
	return m.Called(ctx, commentID, text).Error(0)
}

func (m *apiMock) DeleteComment(ctx context.Context, commentID int64) error {
	return m.Called(ctx, commentID).Error(0)
}

func (m *apiMock) FetchDashboard(ctx context.Context) (models.DashboardSummary, error) {
	args := m.Called(ctx)

	var summary models.DashboardSummary
	if value := args.Get(0); value != nil {
		summary = value.(models.DashboardSummary)
	}
	return summary, args.Error(1)
}
