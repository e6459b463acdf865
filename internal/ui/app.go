package ui

import (
	"errors"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/board"
	"taskdeck/internal/logging"
	"taskdeck/internal/models"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	"taskdeck/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewGroups
	ViewTasks
	ViewDashboard
	ViewArchived
)

const lastGroupKey = "last_group_id"

type App struct {
	kv      store.KV
	session *session.Session
	board   *board.Board
	archive *store.Archive

	currentView View
	login       *views.LoginView
	groupList   *views.GroupListView
	taskList    *views.TaskListView
	dashboard   *views.DashboardView
	archived    *views.ArchivedView

	width  int
	height int
}

// NewApp wires the views over a shared board and session
func NewApp(kv store.KV, sess *session.Session, b *board.Board, archive *store.Archive) *App {
	a := &App{
		kv:      kv,
		session: sess,
		board:   b,
		archive: archive,
	}
	if sess.Authenticated() {
		a.currentView = ViewGroups
	} else {
		a.currentView = ViewLogin
		a.login = views.NewLoginView(sess)
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if a.currentView == ViewLogin {
		return a.login.Init()
	}
	return a.openGroups()
}

// openGroups shows the group list, restoring the last opened group
func (a *App) openGroups() tea.Cmd {
	a.currentView = ViewGroups

	var autoOpenID int64
	if raw, err := a.kv.Get(lastGroupKey); err == nil && raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			autoOpenID = id
		}
	}

	a.groupList = views.NewGroupListView(a.board, autoOpenID)
	return tea.Batch(
		a.groupList.Init(),
		a.resizeMsg(),
	)
}

func (a *App) openGroup(group models.Group) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.board, group)

	if err := a.kv.Set(lastGroupKey, strconv.FormatInt(group.ID, 10)); err != nil {
		logging.Logger.WithError(err).Warn("could not remember last group")
	}

	return tea.Batch(
		a.taskList.Init(),
		a.resizeMsg(),
	)
}

func (a *App) resizeMsg() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case error:
		// An expired or revoked token kicks the whole app back to the
		// login screen, once. Later 401s from in-flight requests are
		// routed like any other error.
		var authErr *api.AuthError
		if errors.As(msg, &authErr) && a.currentView != ViewLogin {
			a.session.Invalidate()
			logging.Logger.Warn("session expired, forcing login")
			a.currentView = ViewLogin
			a.login = views.NewLoginView(a.session)
			cmd := a.login.Init()
			_, errCmd := a.login.Update(msg)
			return a, tea.Batch(cmd, errCmd, a.resizeMsg())
		}

	case views.LoggedIn:
		return a, a.openGroups()

	case views.SelectedGroup:
		return a, a.openGroup(msg.Group)

	case views.BackToGroups:
		if err := a.kv.Set(lastGroupKey, ""); err != nil {
			logging.Logger.WithError(err).Warn("could not clear last group")
		}
		return a, a.openGroups()

	case views.ShowDashboard:
		a.currentView = ViewDashboard
		a.dashboard = views.NewDashboardView(a.board)
		return a, tea.Batch(a.dashboard.Init(), a.resizeMsg())

	case views.ShowArchived:
		a.currentView = ViewArchived
		a.archived = views.NewArchivedView(a.archive)
		return a, tea.Batch(a.archived.Init(), a.resizeMsg())

	case views.BackToGroupsFromDashboard, views.BackToGroupsFromArchive:
		return a, a.openGroups()
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewGroups:
		_, cmd = a.groupList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewDashboard:
		_, cmd = a.dashboard.Update(msg)
	case ViewArchived:
		_, cmd = a.archived.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewLogin:
		if a.login != nil {
			return a.login.View()
		}
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	case ViewDashboard:
		if a.dashboard != nil {
			return a.dashboard.View()
		}
	case ViewArchived:
		if a.archived != nil {
			return a.archived.View()
		}
	}
	if a.groupList != nil {
		return a.groupList.View()
	}
	return ""
}
