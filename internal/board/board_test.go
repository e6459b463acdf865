package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/store"
)

func newTestBoard(client API) *Board {
	return New(client, store.NewArchive(store.NewMemory()))
}

func TestLoadGroups_SelectsFirstGroup(t *testing.T) {
	client := new(apiMock)
	client.On("ListGroups", mock.Anything).Return([]models.Group{{ID: 1, Name: "Work"}}, nil).Once()
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return([]models.Task{}, nil).Once()

	b := newTestBoard(client)
	require.NoError(t, b.LoadGroups(context.Background()))

	require.Equal(t, int64(1), b.SelectedGroupID())
	require.Empty(t, b.Tasks())

	stats := b.Stats()
	require.Equal(t, Stats{}, stats)

	client.AssertExpectations(t)
}

func TestLoadGroups_KeepsExistingSelection(t *testing.T) {
	client := new(apiMock)
	client.On("ListGroups", mock.Anything).Return([]models.Group{{ID: 1, Name: "Work"}}, nil).Once()
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return(nil, nil).Once()
	b := newTestBoard(client)
	require.NoError(t, b.LoadGroups(context.Background()))

	// Second load must not re-select or refetch tasks.
	client.On("ListGroups", mock.Anything).Return([]models.Group{
		{ID: 2, Name: "Home"},
		{ID: 1, Name: "Work"},
	}, nil).Once()
	require.NoError(t, b.LoadGroups(context.Background()))

	require.Equal(t, int64(1), b.SelectedGroupID())
	client.AssertExpectations(t)
}

func TestSelectGroup_CommentsKeyedByTaskID(t *testing.T) {
	tasks := []models.Task{
		{ID: 10, GroupID: 1, Title: "a"},
		{ID: 11, GroupID: 1, Title: "b"},
		{ID: 12, GroupID: 1, Title: "c"},
	}

	client := new(apiMock)
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return(tasks, nil).Once()
	client.On("ListComments", mock.Anything, int64(10)).Return([]models.Comment{{ID: 1, TaskID: 10, Comment: "hi"}}, nil).Once()
	client.On("ListComments", mock.Anything, int64(11)).Return(nil, errors.New("boom")).Once()
	client.On("ListComments", mock.Anything, int64(12)).Return([]models.Comment{{ID: 2, TaskID: 12, Comment: "yo"}}, nil).Once()

	b := newTestBoard(client)
	require.NoError(t, b.SelectGroup(context.Background(), 1))

	require.Len(t, b.Comments(10), 1)
	// A failed comment fetch degrades to an empty list, not a failed view.
	require.Empty(t, b.Comments(11))
	require.Equal(t, "yo", b.Comments(12)[0].Comment)

	client.AssertExpectations(t)
}

func TestSaveTask_RequiresTitleAndGroup(t *testing.T) {
	client := new(apiMock)
	b := newTestBoard(client)

	err := b.SaveTask(context.Background(), api.TaskInput{GroupID: 1, Title: "  "}, nil)
	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "title", verr.Field)

	err = b.SaveTask(context.Background(), api.TaskInput{Title: "x"}, nil)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "group_id", verr.Field)

	// No network call may have happened.
	client.AssertExpectations(t)
}

func TestSaveTask_DoneForcesFullProgress(t *testing.T) {
	client := new(apiMock)
	client.On("CreateTask", mock.Anything, mock.MatchedBy(func(in api.TaskInput) bool {
		return in.Status == models.StatusDone && in.Progress == 100
	})).Return(nil).Once()

	b := newTestBoard(client) // nothing selected, reload is a no-op
	err := b.SaveTask(context.Background(), api.TaskInput{
		GroupID:  1,
		Title:    "ship it",
		Status:   models.StatusDone,
		Progress: 40,
	}, nil)
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSaveTask_FailedWriteLeavesStateUntouched(t *testing.T) {
	client := new(apiMock)
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return([]models.Task{{ID: 10, GroupID: 1, Title: "keep"}}, nil).Once()
	client.On("ListComments", mock.Anything, int64(10)).Return(nil, nil).Once()

	b := newTestBoard(client)
	require.NoError(t, b.SelectGroup(context.Background(), 1))

	client.On("UpdateTask", mock.Anything, int64(10), mock.Anything).Return(errors.New("boom")).Once()
	id := int64(10)
	err := b.SaveTask(context.Background(), api.TaskInput{GroupID: 1, Title: "new title"}, &id)
	require.Error(t, err)

	// No reload happened; the cached task is exactly as fetched.
	require.Equal(t, "keep", b.Tasks()[0].Title)
	client.AssertExpectations(t)
}

func TestSetTaskStatus_Idempotent(t *testing.T) {
	done := []models.Task{{ID: 10, GroupID: 1, Title: "t", Status: models.StatusDone, Progress: 100}}

	client := new(apiMock)
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return(done, nil).Times(3)
	client.On("ListComments", mock.Anything, int64(10)).Return(nil, nil).Times(3)
	b := newTestBoard(client)
	require.NoError(t, b.SelectGroup(context.Background(), 1))

	// Two identical completions: two PUTs, same observed state.
	client.On("SetTaskState", mock.Anything, int64(10), models.StatusDone, 100).Return(nil).Twice()
	require.NoError(t, b.QuickComplete(context.Background(), 10))
	first := b.Tasks()
	require.NoError(t, b.QuickComplete(context.Background(), 10))
	require.Equal(t, first, b.Tasks())

	client.AssertExpectations(t)
}

func TestUpdateProgress_DerivesStatus(t *testing.T) {
	client := new(apiMock)
	client.On("SetTaskState", mock.Anything, int64(5), models.StatusDone, 100).Return(nil).Once()
	client.On("SetTaskState", mock.Anything, int64(5), models.StatusInProgress, 30).Return(nil).Once()
	client.On("SetTaskState", mock.Anything, int64(5), models.StatusTodo, 0).Return(nil).Once()

	b := newTestBoard(client)
	require.NoError(t, b.UpdateProgress(context.Background(), 5, 100))
	require.NoError(t, b.UpdateProgress(context.Background(), 5, 30))
	require.NoError(t, b.UpdateProgress(context.Background(), 5, 0))

	client.AssertExpectations(t)
}

func TestDuplicateTask_StripsServerFieldsAndSuffixesTitle(t *testing.T) {
	due := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	original := models.Task{
		ID:          42,
		GroupID:     1,
		Title:       "write report",
		Description: "quarterly numbers",
		Priority:    models.PriorityHigh,
		Status:      models.StatusInProgress,
		Progress:    60,
		DueDate:     &due,
		CreatedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
	}

	client := new(apiMock)
	client.On("CreateTask", mock.Anything, api.TaskInput{
		GroupID:     1,
		Title:       "write report (Copy)",
		Description: "quarterly numbers",
		Priority:    models.PriorityHigh,
		Status:      models.StatusInProgress,
		Progress:    60,
		DueDate:     &due,
	}).Return(nil).Once()

	b := newTestBoard(client)
	require.NoError(t, b.DuplicateTask(context.Background(), original))
	client.AssertExpectations(t)
}

func TestArchiveTask_SnapshotsThenDeletes(t *testing.T) {
	kv := store.NewMemory()
	archive := store.NewArchive(kv)

	tasks := []models.Task{{ID: 10, GroupID: 1, Title: "old"}}
	client := new(apiMock)
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return(tasks, nil).Once()
	client.On("ListComments", mock.Anything, int64(10)).Return(nil, nil).Once()

	b := New(client, archive)
	require.NoError(t, b.SelectGroup(context.Background(), 1))

	client.On("DeleteTask", mock.Anything, int64(10)).Return(nil).Once()
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return(nil, nil).Once()
	require.NoError(t, b.ArchiveTask(context.Background(), 10))

	archived := archive.List()
	require.Len(t, archived, 1)
	require.Equal(t, "old", archived[0].Task.Title)
	require.NotEmpty(t, archived[0].SnapshotID)
	require.False(t, archived[0].ArchivedAt.IsZero())

	client.AssertExpectations(t)
}

func TestArchiveTask_FailedDeleteKeepsSnapshot(t *testing.T) {
	kv := store.NewMemory()
	archive := store.NewArchive(kv)

	client := new(apiMock)
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return([]models.Task{{ID: 10, GroupID: 1, Title: "old"}}, nil).Once()
	client.On("ListComments", mock.Anything, int64(10)).Return(nil, nil).Once()

	b := New(client, archive)
	require.NoError(t, b.SelectGroup(context.Background(), 1))

	client.On("DeleteTask", mock.Anything, int64(10)).Return(errors.New("boom")).Once()
	require.Error(t, b.ArchiveTask(context.Background(), 10))

	// The snapshot was taken before the delete was attempted.
	require.Len(t, archive.List(), 1)
	client.AssertExpectations(t)
}

func TestAddComment_Validation(t *testing.T) {
	client := new(apiMock)
	b := newTestBoard(client)

	var verr *api.ValidationError
	require.ErrorAs(t, b.AddComment(context.Background(), 10, "   "), &verr)

	long := make([]byte, models.MaxCommentLen+1)
	for i := range long {
		long[i] = 'x'
	}
	require.ErrorAs(t, b.AddComment(context.Background(), 10, string(long)), &verr)

	client.AssertExpectations(t)
}

func TestAddComment_RefetchesOnlyThatTask(t *testing.T) {
	client := new(apiMock)
	client.On("AddComment", mock.Anything, int64(10), "nice").Return(nil).Once()
	client.On("ListComments", mock.Anything, int64(10)).Return([]models.Comment{{ID: 1, TaskID: 10, Comment: "nice"}}, nil).Once()

	// No ListTasksByGroup expectation: a full reload here is a bug.
	b := newTestBoard(client)
	require.NoError(t, b.AddComment(context.Background(), 10, "nice"))
	require.Len(t, b.Comments(10), 1)

	client.AssertExpectations(t)
}

func TestSelectionLifecycle(t *testing.T) {
	client := new(apiMock)
	b := newTestBoard(client)

	b.ToggleSelect(3)
	b.ToggleSelect(1)
	b.ToggleSelect(2)
	b.ToggleSelect(3) // off again

	require.Equal(t, []int64{1, 2}, b.SelectedIDs())
	require.True(t, b.IsSelected(1))
	require.False(t, b.IsSelected(3))

	b.ClearSelection()
	require.Empty(t, b.SelectedIDs())
}
