package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/board"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusBackButton FocusArea = iota
	FocusSearchInput
	FocusTaskList
)

const dueDateLayout = "2006-01-02"

var priorityOptions = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
var statusOptions = []models.Status{models.StatusTodo, models.StatusInProgress, models.StatusDone}
var sortCycle = []board.SortBy{board.SortCreated, board.SortPriority, board.SortTitle, board.SortDueDate}

var sortLabels = map[board.SortBy]string{
	board.SortCreated:  "newest",
	board.SortPriority: "priority",
	board.SortTitle:    "title",
	board.SortDueDate:  "due date",
}

// confirmKind distinguishes the destructive confirmations that share one
// y/n prompt.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDeleteTask
	confirmArchiveTask
	confirmBatchDelete
)

// TaskListView shows the tasks of one group
type TaskListView struct {
	board  *board.Board
	group  models.Group
	tasks  []models.Task
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	errText     string

	// Filter dropdown state ('f' priority, 'F' status)
	priorityDropdownOpen bool
	statusDropdownOpen   bool
	dropdownCursor       int

	// Task creation/editing
	editing        bool
	editingNew     bool
	editingID      int64
	editTitle      textinput.Model
	editDesc       textarea.Model
	editProgress   textinput.Model
	editDueDate    textinput.Model
	editFocusIdx   int // 0=title, 1=desc, 2=priority, 3=status, 4=progress, 5=due, 6=save
	editPriorityIx int
	editStatusIx   int

	// Task detail view (comments live here)
	viewingTask   bool
	viewTaskID    int64
	commentCursor int

	// Comment input (add or edit)
	commentInput        textarea.Model
	commentInputFocused bool
	editingCommentID    int64 // 0 = adding a new comment

	// Destructive confirmations
	confirming       confirmKind
	confirmTargetID  int64
	confirmTargetStr string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a task list view over one group
func NewTaskListView(b *board.Board, group models.Group) *TaskListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editProgress := textinput.New()
	editProgress.Placeholder = "0-100"
	editProgress.CharLimit = 3

	editDueDate := textinput.New()
	editDueDate.Placeholder = "YYYY-MM-DD (optional)"
	editDueDate.CharLimit = 10

	commentInput := textarea.New()
	commentInput.Placeholder = "Add a comment..."
	commentInput.CharLimit = models.MaxCommentLen
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	return &TaskListView{
		board:        b,
		group:        group,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		focus:        FocusTaskList,
		searchInput:  search,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editProgress: editProgress,
		editDueDate:  editDueDate,
		commentInput: commentInput,
	}
}

// BackToGroups signals to go back to the group list
type BackToGroups struct{}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

type tasksLoadedMsg struct{}

type boardChangedMsg struct{}

type commentsChangedMsg struct{}

func (v *TaskListView) loadTasks() tea.Msg {
	if err := v.board.SelectGroup(context.Background(), v.group.ID); err != nil {
		return err
	}
	return tasksLoadedMsg{}
}

// mutate runs fn off the UI loop and reports back with a refresh signal
func (v *TaskListView) mutate(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return err
		}
		return boardChangedMsg{}
	}
}

// syncTasks pulls the filtered projection out of the board and keeps the
// cursor inside it
func (v *TaskListView) syncTasks() {
	v.tasks = v.board.FilteredSorted()
	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
	if v.viewingTask {
		// The viewed task may have been archived or deleted out from
		// under us
		if _, ok := v.taskByID(v.viewTaskID); !ok {
			v.viewingTask = false
			v.viewTaskID = 0
		}
	}
}

func (v *TaskListView) taskByID(id int64) (models.Task, bool) {
	for _, t := range v.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (v *TaskListView) currentTask() (models.Task, bool) {
	if len(v.tasks) == 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.commentInput.SetWidth(inputWidth)
		return v, nil

	case tasksLoadedMsg:
		v.errText = ""
		v.syncTasks()
		return v, nil

	case boardChangedMsg:
		v.errText = ""
		v.syncTasks()
		return v, nil

	case commentsChangedMsg:
		v.errText = ""
		v.commentCursor = 0
		return v, nil

	case error:
		v.errText = msg.Error()
		return v, nil

	case tea.KeyMsg:
		// Help popup first, any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirming != confirmNone {
			return v.updateConfirm(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		if v.priorityDropdownOpen || v.statusDropdownOpen {
			return v.updateDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search typing swallows hotkeys
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			p := v.board.Params()
			p.Search = v.searchInput.Value()
			v.board.SetParams(p)
			v.syncTasks()
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if len(v.board.SelectedIDs()) > 0 {
			v.board.ClearSelection()
			return v, nil
		}
		return v, func() tea.Msg { return BackToGroups{} }

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusBackButton:
			return v, func() tea.Msg { return BackToGroups{} }
		case FocusTaskList:
			if t, ok := v.currentTask(); ok {
				v.viewingTask = true
				v.viewTaskID = t.ID
				v.commentCursor = 0
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			v.startEditTask(t)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			v.confirming = confirmDeleteTask
			v.confirmTargetID = t.ID
			v.confirmTargetStr = t.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Archive):
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			v.confirming = confirmArchiveTask
			v.confirmTargetID = t.ID
			v.confirmTargetStr = t.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.priorityDropdownOpen = true
		v.dropdownCursor = 0
		return v, nil

	case msg.String() == "F":
		v.statusDropdownOpen = true
		v.dropdownCursor = 0
		return v, nil

	case key.Matches(msg, v.keys.Sort):
		p := v.board.Params()
		for i, s := range sortCycle {
			if s == p.SortBy {
				p.SortBy = sortCycle[(i+1)%len(sortCycle)]
				break
			}
		}
		v.board.SetParams(p)
		v.syncTasks()
		return v, nil

	case msg.String() == "v":
		p := v.board.Params()
		if p.ViewMode == board.ViewGrid {
			p.ViewMode = board.ViewList
		} else {
			p.ViewMode = board.ViewGrid
		}
		v.board.SetParams(p)
		return v, nil

	case key.Matches(msg, v.keys.ShowCompleted):
		p := v.board.Params()
		p.ShowCompleted = !p.ShowCompleted
		v.board.SetParams(p)
		v.cursor = 0
		v.scrollY = 0
		v.syncTasks()
		return v, nil

	case key.Matches(msg, v.keys.Select):
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			v.board.ToggleSelect(t.ID)
			if v.cursor < len(v.tasks)-1 {
				v.cursor++
				v.ensureVisible()
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.SelectAll):
		v.board.SelectAllFiltered()
		return v, nil

	case key.Matches(msg, v.keys.Complete):
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.QuickComplete(ctx, t.ID)
			})
		}
		return v, nil

	case key.Matches(msg, v.keys.Start):
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.StartTask(ctx, t.ID)
			})
		}
		return v, nil

	case key.Matches(msg, v.keys.Duplicate):
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.DuplicateTask(ctx, t)
			})
		}
		return v, nil

	case msg.String() == "+", msg.String() == "=":
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			next := clamp(t.Progress+10, 0, 100)
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.UpdateProgress(ctx, t.ID, next)
			})
		}
		return v, nil

	case msg.String() == "-":
		if t, ok := v.currentTask(); ok && v.focus == FocusTaskList {
			next := clamp(t.Progress-10, 0, 100)
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.UpdateProgress(ctx, t.ID, next)
			})
		}
		return v, nil

	case msg.String() == "X":
		if ids := v.board.SelectedIDs(); len(ids) > 0 {
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.BatchApply(ctx, ids, board.BatchComplete)
			})
		}
		return v, nil

	case msg.String() == "S":
		if ids := v.board.SelectedIDs(); len(ids) > 0 {
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.BatchApply(ctx, ids, board.BatchStart)
			})
		}
		return v, nil

	case msg.String() == "D":
		if ids := v.board.SelectedIDs(); len(ids) > 0 {
			v.confirming = confirmBatchDelete
			v.confirmTargetStr = fmt.Sprintf("%d selected tasks", len(ids))
		}
		return v, nil

	case msg.String() == "r":
		return v, v.loadTasks

	case msg.String() == "?":
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := len(priorityOptions)
	if v.statusDropdownOpen {
		options = len(statusOptions)
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.priorityDropdownOpen = false
		v.statusDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.dropdownCursor > 0 {
			v.dropdownCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.dropdownCursor < options { // +1 for "All"
			v.dropdownCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		p := v.board.Params()
		if v.priorityDropdownOpen {
			if v.dropdownCursor == 0 {
				p.Priority = ""
			} else {
				p.Priority = priorityOptions[v.dropdownCursor-1]
			}
			v.priorityDropdownOpen = false
		} else {
			if v.dropdownCursor == 0 {
				p.Status = ""
			} else {
				p.Status = statusOptions[v.dropdownCursor-1]
			}
			v.statusDropdownOpen = false
		}
		v.board.SetParams(p)
		v.cursor = 0
		v.scrollY = 0
		v.syncTasks()
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		kind := v.confirming
		id := v.confirmTargetID
		v.confirming = confirmNone
		switch kind {
		case confirmDeleteTask:
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.DeleteTask(ctx, id)
			})
		case confirmArchiveTask:
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.ArchiveTask(ctx, id)
			})
		case confirmBatchDelete:
			ids := v.board.SelectedIDs()
			return v, v.mutate(func(ctx context.Context) error {
				return v.board.BatchApply(ctx, ids, board.BatchDelete)
			})
		}
		return v, nil
	case "n", "N", "esc":
		v.confirming = confirmNone
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := v.taskByID(v.viewTaskID)
	if !ok {
		v.viewingTask = false
		return v, nil
	}
	comments := v.board.Comments(task.ID)

	// Comment input mode (add or edit)
	if v.commentInputFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.commentInputFocused = false
			v.editingCommentID = 0
			v.commentInput.Blur()
			return v, nil
		case msg.String() == "ctrl+s":
			return v, v.submitComment(task.ID)
		default:
			var cmd tea.Cmd
			v.commentInput, cmd = v.commentInput.Update(msg)
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		v.viewTaskID = 0
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.viewTaskID = 0
		v.startEditTask(task)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		v.confirming = confirmDeleteTask
		v.confirmTargetID = task.ID
		v.confirmTargetStr = task.Title
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.commentCursor > 0 {
			v.commentCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.commentCursor < len(comments)-1 {
			v.commentCursor++
		}
		return v, nil

	case msg.String() == "c", msg.String() == "a":
		v.commentInputFocused = true
		v.editingCommentID = 0
		v.commentInput.Reset()
		v.commentInput.Focus()
		return v, textarea.Blink

	case msg.String() == "E":
		if v.commentCursor < len(comments) {
			c := comments[v.commentCursor]
			v.commentInputFocused = true
			v.editingCommentID = c.ID
			v.commentInput.SetValue(c.Comment)
			v.commentInput.Focus()
			return v, textarea.Blink
		}
		return v, nil

	case msg.String() == "D":
		if v.commentCursor < len(comments) {
			commentID := comments[v.commentCursor].ID
			return v, func() tea.Msg {
				if err := v.board.DeleteComment(context.Background(), task.ID, commentID); err != nil {
					return err
				}
				return commentsChangedMsg{}
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Complete):
		return v, v.mutate(func(ctx context.Context) error {
			return v.board.QuickComplete(ctx, task.ID)
		})

	case msg.String() == "+", msg.String() == "=":
		next := clamp(task.Progress+10, 0, 100)
		return v, v.mutate(func(ctx context.Context) error {
			return v.board.UpdateProgress(ctx, task.ID, next)
		})

	case msg.String() == "-":
		next := clamp(task.Progress-10, 0, 100)
		return v, v.mutate(func(ctx context.Context) error {
			return v.board.UpdateProgress(ctx, task.ID, next)
		})

	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v.finishEdit()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 7
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 6) % 7
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		// Enter on single-line fields moves on; on the save button it
		// saves. The description textarea keeps enter for newlines.
		switch v.editFocusIdx {
		case 0, 2, 3, 4, 5:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case 6:
			return v.finishEdit()
		}

	case key.Matches(msg, v.keys.Up), msg.String() == "left", msg.String() == "h":
		if v.editFocusIdx == 2 && v.editPriorityIx > 0 {
			v.editPriorityIx--
			return v, nil
		}
		if v.editFocusIdx == 3 && v.editStatusIx > 0 {
			v.editStatusIx--
			return v, nil
		}

	case key.Matches(msg, v.keys.Down), msg.String() == "right", msg.String() == "l":
		if v.editFocusIdx == 2 && v.editPriorityIx < len(priorityOptions)-1 {
			v.editPriorityIx++
			return v, nil
		}
		if v.editFocusIdx == 3 && v.editStatusIx < len(statusOptions)-1 {
			v.editStatusIx++
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case 4:
		v.editProgress, cmd = v.editProgress.Update(msg)
	case 5:
		v.editDueDate, cmd = v.editDueDate.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + 3) % 3)
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *TaskListView) ensureVisible() {
	// Each task item is 2 lines + 1 margin = 3 lines
	availableHeight := v.height - 12
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editingID = 0
	v.editFocusIdx = 0
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editProgress.SetValue("0")
	v.editDueDate.Reset()
	v.editPriorityIx = 1 // MEDIUM
	v.editStatusIx = 0   // TODO
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editingID = task.ID
	v.editFocusIdx = 0
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editProgress.SetValue(strconv.Itoa(task.Progress))
	if task.DueDate != nil {
		v.editDueDate.SetValue(task.DueDate.Format(dueDateLayout))
	} else {
		v.editDueDate.Reset()
	}
	v.editPriorityIx = 0
	for i, p := range priorityOptions {
		if p == task.Priority {
			v.editPriorityIx = i
		}
	}
	v.editStatusIx = 0
	for i, s := range statusOptions {
		if s == task.Status {
			v.editStatusIx = i
		}
	}
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editProgress.Blur()
	v.editDueDate.Blur()

	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	case 4:
		v.editProgress.Focus()
	case 5:
		v.editDueDate.Focus()
	}
}

func (v *TaskListView) finishEdit() (tea.Model, tea.Cmd) {
	input, err := v.buildTaskInput()
	if err != nil {
		v.errText = err.Error()
		return v, nil
	}

	var editingID *int64
	if !v.editingNew {
		id := v.editingID
		editingID = &id
	}

	v.editing = false
	return v, v.mutate(func(ctx context.Context) error {
		return v.board.SaveTask(ctx, input, editingID)
	})
}

func (v *TaskListView) buildTaskInput() (api.TaskInput, error) {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		return api.TaskInput{}, &api.ValidationError{Field: "title", Message: "title is required"}
	}

	progress, err := strconv.Atoi(strings.TrimSpace(v.editProgress.Value()))
	if err != nil {
		progress = 0
	}
	progress = clamp(progress, 0, 100)

	var due *time.Time
	if raw := strings.TrimSpace(v.editDueDate.Value()); raw != "" {
		parsed, err := time.Parse(dueDateLayout, raw)
		if err != nil {
			return api.TaskInput{}, &api.ValidationError{Field: "due_date", Message: "due date must be YYYY-MM-DD"}
		}
		due = &parsed
	}

	return api.TaskInput{
		GroupID:     v.group.ID,
		Title:       title,
		Description: strings.TrimSpace(v.editDesc.Value()),
		Priority:    priorityOptions[v.editPriorityIx],
		Status:      statusOptions[v.editStatusIx],
		Progress:    progress,
		DueDate:     due,
	}, nil
}

// submitComment adds a new comment or saves an edited one
func (v *TaskListView) submitComment(taskID int64) tea.Cmd {
	content := strings.TrimSpace(v.commentInput.Value())
	if content == "" {
		return nil
	}

	commentID := v.editingCommentID
	v.commentInput.Reset()
	v.commentInputFocused = false
	v.editingCommentID = 0
	v.commentInput.Blur()

	return func() tea.Msg {
		var err error
		if commentID != 0 {
			err = v.board.UpdateComment(context.Background(), taskID, commentID, content)
		} else {
			err = v.board.AddComment(context.Background(), taskID, content)
		}
		if err != nil {
			return err
		}
		return commentsChangedMsg{}
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirming != confirmNone {
		return v.renderConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderStatsLine())
	b.WriteString("\n\n")

	if v.board.Params().ViewMode == board.ViewGrid {
		b.WriteString(v.renderTaskGrid())
	} else {
		b.WriteString(v.renderTaskList())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	if v.errText != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.ErrorBar.Render(v.errText))
	}

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60
	p := v.board.Params()

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 30)
	v.searchInput.Placeholder = "Search..."
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	priorityLabel := "All"
	if p.Priority != "" {
		priorityLabel = string(p.Priority)
	}
	statusLabel := "All"
	if p.Status != "" {
		statusLabel = string(p.Status)
	}
	if !isNarrow {
		priorityLabel = "Priority: " + priorityLabel
		statusLabel = "Status: " + statusLabel
	}
	priorityBtn := s.Button.Render(priorityLabel + " ▼")
	statusBtn := s.Button.Render(statusLabel + " ▼")
	sortBtn := s.Button.Render("Sort: " + sortLabels[p.SortBy])

	titleText := v.group.Name
	if !p.ShowCompleted {
		titleText += " (hiding done)"
	}
	if n := len(v.board.SelectedIDs()); n > 0 {
		titleText += fmt.Sprintf("  [%d selected]", n)
	}
	title := s.Title.Render(titleText)

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left,
			searchBox,
			lipgloss.JoinHorizontal(lipgloss.Center, priorityBtn, " ", statusBtn),
		)
	} else {
		backStyle := s.Button
		if v.focus == FocusBackButton {
			backStyle = s.ButtonFocused
		}
		backBtn := backStyle.Render("← Groups")

		header = lipgloss.JoinHorizontal(lipgloss.Center,
			backBtn, "  ", searchBox, "  ", priorityBtn, " ", statusBtn, " ", sortBtn,
		)
	}

	dropdown := ""
	if v.priorityDropdownOpen {
		dropdown = "\n" + v.renderDropdown(priorityLabels())
	} else if v.statusDropdownOpen {
		dropdown = "\n" + v.renderDropdown(statusLabels())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header+dropdown)
}

func priorityLabels() []string {
	out := []string{"All"}
	for _, p := range priorityOptions {
		out = append(out, string(p))
	}
	return out
}

func statusLabels() []string {
	out := []string{"All"}
	for _, s := range statusOptions {
		out = append(out, string(s))
	}
	return out
}

func (v *TaskListView) renderDropdown(labels []string) string {
	s := v.styles
	var items []string
	for i, label := range labels {
		itemStyle := s.ListItem
		if v.dropdownCursor == i {
			itemStyle = s.ListSelected
		}
		items = append(items, itemStyle.Render(label))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return s.FilterBar.Render(content)
}

func (v *TaskListView) renderStatsLine() string {
	s := v.styles
	st := v.board.Stats()
	if st.Total == 0 {
		return ""
	}

	line := fmt.Sprintf("%d tasks • %d done • %d active • %d todo",
		st.Total, st.Completed, st.InProgress, st.Todo)
	if st.Overdue > 0 {
		line += lipgloss.NewStyle().Foreground(styles.Current.Error).
			Render(fmt.Sprintf(" • %d overdue", st.Overdue))
	}
	line += fmt.Sprintf(" • avg %d%%", st.AvgProgress)
	return s.TitleMuted.Render(line)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	availableHeight := v.height - 12
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	var items []string
	endIdx := min(v.scrollY+visibleItems, len(v.tasks))

	for i := v.scrollY; i < endIdx; i++ {
		task := v.tasks[i]
		items = append(items, v.renderTaskItem(task, i == v.cursor && v.focus == FocusTaskList))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskGrid() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	contentWidth := styles.ContentWidth(v.width)
	cardWidth := max(contentWidth/2-4, 20)

	var rows []string
	for i := 0; i < len(v.tasks); i += 2 {
		left := v.renderTaskCard(v.tasks[i], cardWidth, i == v.cursor && v.focus == FocusTaskList)
		if i+1 < len(v.tasks) {
			right := v.renderTaskCard(v.tasks[i+1], cardWidth, i+1 == v.cursor && v.focus == FocusTaskList)
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
		} else {
			rows = append(rows, left)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *TaskListView) renderTaskCard(task models.Task, width int, selected bool) string {
	s := v.styles

	style := s.ListItem.Width(width)
	if selected {
		style = s.ListSelected.Width(width)
	}

	mark := "  "
	if v.board.IsSelected(task.ID) {
		mark = "✓ "
	}
	prio := lipgloss.NewStyle().Foreground(styles.PriorityColor(task.Priority)).Render("●")
	bar := styles.ProgressBar(task.Progress, max(width-10, 6))

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		mark+prio+" "+task.Title,
		bar,
	))
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	mark := "[ ] "
	if v.board.IsSelected(task.ID) {
		mark = "[✓] "
	}

	prio := lipgloss.NewStyle().Foreground(styles.PriorityColor(task.Priority)).Render("● ")
	titleLine := mark + prio + task.Title

	status := lipgloss.NewStyle().Foreground(styles.StatusColor(task.Status)).Render(string(task.Status))
	detail := status + "  " + styles.ProgressBar(task.Progress, 14)
	if task.DueDate != nil {
		due := "due " + task.DueDate.Format(dueDateLayout)
		if board.IsOverdue(task, time.Now()) {
			due = lipgloss.NewStyle().Foreground(styles.Current.Error).Render(due + " (overdue)")
		}
		detail += "  " + due
	}

	var titleStyle, detailStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		detailStyle = s.ListSelected.Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		detailStyle = s.ListItem.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(titleLine),
		detailStyle.Render(detail),
	) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	progressStyle := s.Input
	dueStyle := s.Input
	btnStyle := s.Button

	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 4:
		progressStyle = s.InputFocused
	case 5:
		dueStyle = s.InputFocused
	case 6:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	prioritySel := v.renderOptionRow(priorityOptionsAsStrings(), v.editPriorityIx, v.editFocusIdx == 2)
	statusSel := v.renderOptionRow(statusOptionsAsStrings(), v.editStatusIx, v.editFocusIdx == 3)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		descStyle.Render(v.editDesc.View()),
		"",
		"Priority:",
		prioritySel,
		"",
		"Status:",
		statusSel,
		"",
		"Progress (0-100):",
		progressStyle.Width(10).Render(v.editProgress.View()),
		"",
		"Due date:",
		dueStyle.Width(24).Render(v.editDueDate.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: pick option • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func priorityOptionsAsStrings() []string {
	out := make([]string, len(priorityOptions))
	for i, p := range priorityOptions {
		out[i] = string(p)
	}
	return out
}

func statusOptionsAsStrings() []string {
	out := make([]string, len(statusOptions))
	for i, s := range statusOptions {
		out[i] = string(s)
	}
	return out
}

func (v *TaskListView) renderOptionRow(options []string, selected int, focused bool) string {
	s := v.styles
	var parts []string
	for i, opt := range options {
		style := s.Button
		if i == selected {
			style = s.ButtonPrimary
			if focused {
				style = s.ButtonFocused
			}
		}
		parts = append(parts, style.Render(" "+opt+" "))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, " "))
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s new • %s done • %s start • %s select • %s filter • %s sort • %s archive • %s back",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("x"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("␣"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("o"),
			v.styles.HelpKey.Render("A"),
			v.styles.HelpKey.Render("esc"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	showCompletedLabel := "hide completed"
	if !v.board.Params().ShowCompleted {
		showCompletedLabel = "show completed"
	}

	helpItems := []string{
		s.HelpKey.Render("↵") + "      view task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("e") + "      edit task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("x") + "      mark done",
		s.HelpKey.Render("s") + "      start task",
		s.HelpKey.Render("y") + "      duplicate",
		s.HelpKey.Render("A") + "      archive",
		s.HelpKey.Render("+/-") + "    adjust progress",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("f") + "      filter priority",
		s.HelpKey.Render("F") + "      filter status",
		s.HelpKey.Render("o") + "      cycle sort",
		s.HelpKey.Render("v") + "      list/grid view",
		s.HelpKey.Render("c") + "      " + showCompletedLabel,
		s.HelpKey.Render("␣") + "      select task",
		s.HelpKey.Render("a") + "      select all",
		s.HelpKey.Render("X/S/D") + "  batch done/start/delete",
		s.HelpKey.Render("r") + "      refresh",
		s.HelpKey.Render("esc") + "    back",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var title, detail string
	switch v.confirming {
	case confirmDeleteTask:
		title = "Delete Task?"
		detail = fmt.Sprintf("\"%s\" will be removed from the server.", v.confirmTargetStr)
	case confirmArchiveTask:
		title = "Archive Task?"
		detail = fmt.Sprintf("\"%s\" will be saved locally, then removed from the server.", v.confirmTargetStr)
	case confirmBatchDelete:
		title = "Delete Selected?"
		detail = fmt.Sprintf("%s will be removed from the server.", v.confirmTargetStr)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.taskByID(v.viewTaskID)
	if !ok {
		return ""
	}

	s := v.styles
	maxContentWidth := styles.ContentWidth(v.width)
	comments := v.board.Comments(task.ID)

	priorityText := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(task.Priority)).
		Render(string(task.Priority))
	statusText := lipgloss.NewStyle().
		Foreground(styles.StatusColor(task.Status)).
		Render(string(task.Status))

	dueText := s.TitleMuted.Render("No due date")
	if task.DueDate != nil {
		dueText = task.DueDate.Format("Jan 2, 2006")
		if board.IsOverdue(task, time.Now()) {
			dueText = lipgloss.NewStyle().Foreground(styles.Current.Error).Render(dueText + " (overdue)")
		}
	}

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	titleStyle := s.Title.MarginBottom(1)
	labelStyle := s.TitleMuted
	textWidth := clamp(maxContentWidth-10, 20, 70)

	v.commentInput.SetWidth(clamp(textWidth, 20, 50))

	var commentsContent string
	if len(comments) == 0 {
		commentsContent = s.TitleMuted.Render("No comments yet")
	} else {
		var commentLines []string
		for i, comment := range comments {
			header := comment.Author
			if header != "" {
				header += " • "
			}
			header += comment.CreatedAt.Format("Jan 2, 2006 3:04 PM")

			bodyStyle := lipgloss.NewStyle().Width(textWidth)
			headerStyle := s.TitleMuted
			if !v.commentInputFocused && i == v.commentCursor {
				headerStyle = s.ListSelected
			}

			commentLines = append(commentLines, lipgloss.JoinVertical(lipgloss.Left,
				headerStyle.Render(header),
				bodyStyle.Render(comment.Comment),
			))
		}
		commentsContent = lipgloss.JoinVertical(lipgloss.Left, commentLines...)
	}

	commentInputStyle := s.Input
	if v.commentInputFocused {
		commentInputStyle = s.InputFocused
	}

	var helpText string
	if v.commentInputFocused {
		helpText = s.Help.Render(
			fmt.Sprintf("%s submit • %s cancel",
				s.HelpKey.Render("ctrl+s"),
				s.HelpKey.Render("esc"),
			),
		)
	} else {
		helpText = s.Help.Render(
			fmt.Sprintf("%s edit • %s delete • %s comment • %s edit comment • %s del comment • %s done • %s progress • %s back",
				s.HelpKey.Render("e"),
				s.HelpKey.Render("d"),
				s.HelpKey.Render("c"),
				s.HelpKey.Render("E"),
				s.HelpKey.Render("D"),
				s.HelpKey.Render("x"),
				s.HelpKey.Render("+/-"),
				s.HelpKey.Render("esc"),
			),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(task.Title),
		"",
		labelStyle.Render("Priority"),
		priorityText,
		"",
		labelStyle.Render("Status"),
		statusText+"  "+styles.ProgressBar(task.Progress, 20),
		"",
		labelStyle.Render("Due"),
		dueText,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render(fmt.Sprintf("Comments (%d)", len(comments))),
		commentsContent,
		"",
		commentInputStyle.Render(v.commentInput.View()),
		"",
		helpText,
	)

	if v.errText != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", s.ErrorBar.Render(v.errText))
	}

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
