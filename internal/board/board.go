// Package board owns the client-side projection of one selected group's
// tasks and comments. The server is authoritative; every successful write
// is followed by a refetch, never an optimistic merge.
package board

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"taskdeck/internal/api"
	"taskdeck/internal/logging"
	"taskdeck/internal/models"
	"taskdeck/internal/store"
)

// API is the slice of the HTTP client the board consumes
type API interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, in api.GroupInput) error
	UpdateGroup(ctx context.Context, id int64, in api.GroupInput) error
	DeleteGroup(ctx context.Context, id int64) error

	ListTasksByGroup(ctx context.Context, groupID int64) ([]models.Task, error)
	CreateTask(ctx context.Context, in api.TaskInput) error
	UpdateTask(ctx context.Context, id int64, in api.TaskInput) error
	SetTaskState(ctx context.Context, id int64, status models.Status, progress int) error
	DeleteTask(ctx context.Context, id int64) error

	ListComments(ctx context.Context, taskID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, taskID int64, text string) error
	UpdateComment(ctx context.Context, commentID int64, text string) error
	DeleteComment(ctx context.Context, commentID int64) error

	FetchDashboard(ctx context.Context) (models.DashboardSummary, error)
}

// commentFetchConcurrency bounds the per-task comment fan-out after a
// group is selected. Results are keyed by task id, so completion order
// does not matter.
const commentFetchConcurrency = 4

// Board is the view-state synchronization layer. Methods that talk to
// the server block; the mutex makes concurrent reads from the render
// side safe. A failed mutation leaves all local state untouched.
type Board struct {
	mu      sync.Mutex
	client  API
	archive *store.Archive

	groups          []models.Group
	selectedGroupID int64
	tasks           []models.Task
	comments        map[int64][]models.Comment
	selection       map[int64]struct{}
	params          ViewParams
}

// New creates an empty board
func New(client API, archive *store.Archive) *Board {
	return &Board{
		client:    client,
		archive:   archive,
		comments:  make(map[int64][]models.Comment),
		selection: make(map[int64]struct{}),
		params:    DefaultViewParams(),
	}
}

// LoadGroups fetches the group list. When nothing is selected yet the
// first group is selected and its tasks loaded.
func (b *Board) LoadGroups(ctx context.Context) error {
	groups, err := b.client.ListGroups(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.groups = groups
	selected := b.selectedGroupID
	b.mu.Unlock()

	if selected == 0 && len(groups) > 0 {
		return b.SelectGroup(ctx, groups[0].ID)
	}
	return nil
}

// SelectGroup replaces the task projection with groupID's tasks and
// prefetches comments for every task with a bounded fan-out.
func (b *Board) SelectGroup(ctx context.Context, groupID int64) error {
	tasks, err := b.client.ListTasksByGroup(ctx, groupID)
	if err != nil {
		return err
	}

	comments := b.fetchComments(ctx, tasks)

	b.mu.Lock()
	b.selectedGroupID = groupID
	b.tasks = tasks
	b.comments = comments
	b.pruneSelection()
	b.mu.Unlock()
	return nil
}

// fetchComments loads comments for each task concurrently. A failed
// fetch leaves that task with an empty comment list; the task view must
// not fail because one comment request did.
func (b *Board) fetchComments(ctx context.Context, tasks []models.Task) map[int64][]models.Comment {
	comments := make(map[int64][]models.Comment, len(tasks))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(commentFetchConcurrency)
	for _, t := range tasks {
		g.Go(func() error {
			list, err := b.client.ListComments(ctx, t.ID)
			if err != nil {
				logging.Logger.WithError(err).WithField("task_id", t.ID).Warn("comment fetch failed")
				list = nil
			}
			mu.Lock()
			comments[t.ID] = list
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return comments
}

// Reload refetches the selected group's tasks and comments
func (b *Board) Reload(ctx context.Context) error {
	b.mu.Lock()
	selected := b.selectedGroupID
	b.mu.Unlock()
	if selected == 0 {
		return nil
	}
	return b.SelectGroup(ctx, selected)
}

// SaveGroup creates a group, or updates it when editingID is non-nil,
// then refreshes the group list.
func (b *Board) SaveGroup(ctx context.Context, in api.GroupInput, editingID *int64) error {
	if strings.TrimSpace(in.Name) == "" {
		return &api.ValidationError{Field: "name", Message: "group name is required"}
	}

	var err error
	if editingID != nil {
		err = b.client.UpdateGroup(ctx, *editingID, in)
	} else {
		err = b.client.CreateGroup(ctx, in)
	}
	if err != nil {
		return err
	}
	return b.LoadGroups(ctx)
}

// DeleteGroup deletes a group. Deleting the selected group empties the
// task projection before the refetch.
func (b *Board) DeleteGroup(ctx context.Context, id int64) error {
	if err := b.client.DeleteGroup(ctx, id); err != nil {
		return err
	}

	b.mu.Lock()
	if b.selectedGroupID == id {
		b.selectedGroupID = 0
		b.tasks = nil
		b.comments = make(map[int64][]models.Comment)
		b.selection = make(map[int64]struct{})
	}
	b.mu.Unlock()

	return b.LoadGroups(ctx)
}

// SaveTask creates a task, or updates it when editingID is non-nil, then
// fully reloads the selected group. Status DONE forces progress 100 so a
// completed task can never be written with partial progress.
func (b *Board) SaveTask(ctx context.Context, in api.TaskInput, editingID *int64) error {
	if strings.TrimSpace(in.Title) == "" {
		return &api.ValidationError{Field: "title", Message: "task title is required"}
	}
	if in.GroupID == 0 {
		return &api.ValidationError{Field: "group_id", Message: "task must belong to a group"}
	}
	if in.Status == models.StatusDone {
		in.Progress = 100
	}

	var err error
	if editingID != nil {
		err = b.client.UpdateTask(ctx, *editingID, in)
	} else {
		err = b.client.CreateTask(ctx, in)
	}
	if err != nil {
		return err
	}
	return b.Reload(ctx)
}

// SetTaskStatus updates one task's status and progress, then reloads.
// DONE forces progress to 100.
func (b *Board) SetTaskStatus(ctx context.Context, id int64, status models.Status, progress int) error {
	if status == models.StatusDone {
		progress = 100
	}
	if err := b.client.SetTaskState(ctx, id, status, progress); err != nil {
		return err
	}
	return b.Reload(ctx)
}

// QuickComplete marks a task done
func (b *Board) QuickComplete(ctx context.Context, id int64) error {
	return b.SetTaskStatus(ctx, id, models.StatusDone, 100)
}

// StartTask moves a task to in-progress with zero progress
func (b *Board) StartTask(ctx context.Context, id int64) error {
	return b.SetTaskStatus(ctx, id, models.StatusInProgress, 0)
}

// UpdateProgress sets a task's progress and derives the status from it:
// 100 is done, anything above zero is in progress, zero is todo.
func (b *Board) UpdateProgress(ctx context.Context, id int64, progress int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	status := models.StatusTodo
	switch {
	case progress == 100:
		status = models.StatusDone
	case progress > 0:
		status = models.StatusInProgress
	}
	return b.SetTaskStatus(ctx, id, status, progress)
}

// DuplicateTask re-creates a task from its mutable fields with a
// " (Copy)" title suffix. Server-assigned fields are not sent.
func (b *Board) DuplicateTask(ctx context.Context, t models.Task) error {
	in := api.TaskInput{
		GroupID:     t.GroupID,
		Title:       t.Title + " (Copy)",
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Progress:    t.Progress,
		DueDate:     t.DueDate,
	}
	if err := b.client.CreateTask(ctx, in); err != nil {
		return err
	}
	return b.Reload(ctx)
}

// ArchiveTask snapshots the task into the local archive, then deletes it
// server-side. The two steps are deliberate: the snapshot is taken first
// so the last known state survives the (irreversible) deletion. A failed
// delete leaves the snapshot behind and the task on the server.
func (b *Board) ArchiveTask(ctx context.Context, id int64) error {
	b.mu.Lock()
	var task *models.Task
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			task = &b.tasks[i]
			break
		}
	}
	b.mu.Unlock()

	if task == nil {
		return &api.ValidationError{Field: "task", Message: "task not found in current group"}
	}

	if _, err := b.archive.Add(*task); err != nil {
		return err
	}
	if err := b.client.DeleteTask(ctx, id); err != nil {
		return err
	}
	return b.Reload(ctx)
}

// DeleteTask deletes a task server-side, then reloads
func (b *Board) DeleteTask(ctx context.Context, id int64) error {
	if err := b.client.DeleteTask(ctx, id); err != nil {
		return err
	}
	return b.Reload(ctx)
}

// AddComment posts a comment and refetches only that task's comments.
// This is the one mutation that never forces a full task reload.
func (b *Board) AddComment(ctx context.Context, taskID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &api.ValidationError{Field: "comment", Message: "comment is required"}
	}
	if len(text) > models.MaxCommentLen {
		return &api.ValidationError{Field: "comment", Message: "comment exceeds 500 characters"}
	}

	if err := b.client.AddComment(ctx, taskID, text); err != nil {
		return err
	}
	return b.refreshComments(ctx, taskID)
}

// UpdateComment replaces a comment's text and refetches that task's list
func (b *Board) UpdateComment(ctx context.Context, taskID, commentID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &api.ValidationError{Field: "comment", Message: "comment is required"}
	}
	if len(text) > models.MaxCommentLen {
		return &api.ValidationError{Field: "comment", Message: "comment exceeds 500 characters"}
	}

	if err := b.client.UpdateComment(ctx, commentID, text); err != nil {
		return err
	}
	return b.refreshComments(ctx, taskID)
}

// DeleteComment removes a comment and refetches that task's list
func (b *Board) DeleteComment(ctx context.Context, taskID, commentID int64) error {
	if err := b.client.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	return b.refreshComments(ctx, taskID)
}

func (b *Board) refreshComments(ctx context.Context, taskID int64) error {
	list, err := b.client.ListComments(ctx, taskID)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.comments[taskID] = list
	b.mu.Unlock()
	return nil
}

// FetchDashboard proxies the dashboard aggregate
func (b *Board) FetchDashboard(ctx context.Context) (models.DashboardSummary, error) {
	return b.client.FetchDashboard(ctx)
}

// ToggleSelect flips a task's membership in the batch selection
func (b *Board) ToggleSelect(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.selection[id]; ok {
		delete(b.selection, id)
	} else {
		b.selection[id] = struct{}{}
	}
}

// SelectAllFiltered selects every task in the current filtered view
func (b *Board) SelectAllFiltered() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range FilterSorted(b.tasks, b.params) {
		b.selection[t.ID] = struct{}{}
	}
}

// ClearSelection empties the batch selection
func (b *Board) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = make(map[int64]struct{})
}

// SelectedIDs returns the selected task ids in ascending order
func (b *Board) SelectedIDs() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int64, 0, len(b.selection))
	for id := range b.selection {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsSelected reports whether a task is in the batch selection
func (b *Board) IsSelected(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.selection[id]
	return ok
}

// pruneSelection drops selected ids that no longer exist. Caller holds
// the mutex.
func (b *Board) pruneSelection() {
	present := make(map[int64]struct{}, len(b.tasks))
	for _, t := range b.tasks {
		present[t.ID] = struct{}{}
	}
	for id := range b.selection {
		if _, ok := present[id]; !ok {
			delete(b.selection, id)
		}
	}
}

// Groups returns the cached group list
func (b *Board) Groups() []models.Group {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Group(nil), b.groups...)
}

// SelectedGroupID returns the currently selected group id, 0 when none
func (b *Board) SelectedGroupID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectedGroupID
}

// SelectedGroup returns the selected group, if any
func (b *Board) SelectedGroup() (models.Group, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, g := range b.groups {
		if g.ID == b.selectedGroupID {
			return g, true
		}
	}
	return models.Group{}, false
}

// Tasks returns the cached task list, unfiltered
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Task(nil), b.tasks...)
}

// Comments returns the cached comments for a task
func (b *Board) Comments(taskID int64) []models.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Comment(nil), b.comments[taskID]...)
}

// Params returns the current view parameters
func (b *Board) Params() ViewParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.params
}

// SetParams replaces the view parameters
func (b *Board) SetParams(p ViewParams) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.params = p
}

// FilteredSorted returns the derived task view for the current params
func (b *Board) FilteredSorted() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return FilterSorted(b.tasks, b.params)
}

// ExportJSON writes the selected group's raw task list as indented JSON
func (b *Board) ExportJSON(w io.Writer) error {
	b.mu.Lock()
	tasks := append([]models.Task(nil), b.tasks...)
	b.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}
