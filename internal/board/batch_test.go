package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

func TestBatchApply_Complete(t *testing.T) {
	client := new(apiMock)
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return([]models.Task{
		{ID: 1, GroupID: 1, Title: "a"},
		{ID: 2, GroupID: 1, Title: "b"},
	}, nil).Once()
	client.On("ListComments", mock.Anything, mock.Anything).Return(nil, nil).Twice()

	b := newTestBoard(client)
	require.NoError(t, b.SelectGroup(context.Background(), 1))
	b.ToggleSelect(1)
	b.ToggleSelect(2)

	client.On("SetTaskState", mock.Anything, int64(1), models.StatusDone, 100).Return(nil).Once()
	client.On("SetTaskState", mock.Anything, int64(2), models.StatusDone, 100).Return(nil).Once()
	client.On("ListTasksByGroup", mock.Anything, int64(1)).Return([]models.Task{
		{ID: 1, GroupID: 1, Title: "a", Status: models.StatusDone, Progress: 100},
		{ID: 2, GroupID: 1, Title: "b", Status: models.StatusDone, Progress: 100},
	}, nil).Once()
	client.On("ListComments", mock.Anything, mock.Anything).Return(nil, nil).Twice()

	require.NoError(t, b.BatchApply(context.Background(), b.SelectedIDs(), BatchComplete))

	require.Empty(t, b.SelectedIDs())
	client.AssertExpectations(t)
}

// One failing member fails the whole batch even though the other request
// already succeeded server-side. Only the reported failure is asserted;
// the server-side inconsistency is inherent to the dispatch model.
func TestBatchApply_OneFailureFailsAll(t *testing.T) {
	client := new(apiMock)
	client.On("SetTaskState", mock.Anything, int64(1), models.StatusDone, 100).Return(nil).Once()
	client.On("SetTaskState", mock.Anything, int64(2), models.StatusDone, 100).Return(errors.New("boom")).Once()

	// No reload expectation: state must not be refetched after a failure.
	b := newTestBoard(client)
	err := b.BatchApply(context.Background(), []int64{1, 2}, BatchComplete)
	require.Error(t, err)

	client.AssertExpectations(t)
}

// A failing member must not cancel its siblings: every request in the
// batch runs to completion against the caller's context.
func TestBatchApply_FailureDoesNotCancelSiblings(t *testing.T) {
	client := new(apiMock)
	client.On("SetTaskState", mock.Anything, int64(1), models.StatusDone, 100).
		Return(errors.New("boom")).Once()
	client.On("SetTaskState", mock.Anything, int64(2), models.StatusDone, 100).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			require.NoError(t, ctx.Err())
		}).
		Return(nil).Once()
	client.On("SetTaskState", mock.Anything, int64(3), models.StatusDone, 100).
		Return(nil).Once()

	b := newTestBoard(client)
	err := b.BatchApply(context.Background(), []int64{1, 2, 3}, BatchComplete)
	require.Error(t, err)

	client.AssertExpectations(t)
}

func TestBatchApply_Delete(t *testing.T) {
	client := new(apiMock)
	client.On("DeleteTask", mock.Anything, int64(7)).Return(nil).Once()
	client.On("DeleteTask", mock.Anything, int64(8)).Return(nil).Once()

	b := newTestBoard(client) // no group selected, reload no-ops
	require.NoError(t, b.BatchApply(context.Background(), []int64{7, 8}, BatchDelete))

	client.AssertExpectations(t)
}

func TestBatchApply_Start(t *testing.T) {
	client := new(apiMock)
	client.On("SetTaskState", mock.Anything, int64(3), models.StatusInProgress, 0).Return(nil).Once()

	b := newTestBoard(client)
	require.NoError(t, b.BatchApply(context.Background(), []int64{3}, BatchStart))

	client.AssertExpectations(t)
}

func TestBatchApply_EmptySelectionIsNoop(t *testing.T) {
	client := new(apiMock)
	b := newTestBoard(client)
	require.NoError(t, b.BatchApply(context.Background(), nil, BatchComplete))
	client.AssertExpectations(t)
}
