package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/board"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

type groupItem struct {
	group models.Group
}

func (i groupItem) Title() string       { return i.group.Name }
func (i groupItem) Description() string { return i.group.Description }
func (i groupItem) FilterValue() string { return i.group.Name }

type groupDelegate struct {
	styles *styles.Styles
	width  int
}

func (d groupDelegate) Height() int                               { return 2 }
func (d groupDelegate) Spacing() int                              { return 1 }
func (d groupDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d groupDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	g, ok := item.(groupItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var nameStyle, descStyle lipgloss.Style
	if selected {
		nameStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		nameStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	name := nameStyle.Render(g.Title())
	desc := descStyle.Render(g.Description())

	fmt.Fprintf(w, "%s\n%s", name, desc)
}

// SelectedGroup signals that a group was opened
type SelectedGroup struct {
	Group models.Group
}

// ShowDashboard signals a switch to the dashboard view
type ShowDashboard struct{}

// ShowArchived signals a switch to the local archive view
type ShowArchived struct{}

type groupsLoadedMsg struct {
	groups []models.Group
}

// GroupListView shows all groups
type GroupListView struct {
	board    *board.Board
	list     list.Model
	delegate *groupDelegate
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	// Open this group as soon as it appears in a load (restores the
	// previously opened group across restarts).
	autoOpenID int64

	creating         bool
	editing          bool
	editingID        int64
	loaded           bool
	errText          string
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
	formName         textinput.Model
	formDesc         textinput.Model
	focusIdx         int // 0=name, 1=desc, 2=confirm

	showHelpPopup bool
}

// NewGroupListView creates the group list
func NewGroupListView(b *board.Board, autoOpenID int64) *GroupListView {
	s := styles.NewStyles()

	formName := textinput.New()
	formName.Placeholder = "Group name"
	formName.CharLimit = 100

	formDesc := textinput.New()
	formDesc.Placeholder = "Description (optional)"
	formDesc.CharLimit = 200

	delegate := &groupDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Groups"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &GroupListView{
		board:      b,
		list:       l,
		delegate:   delegate,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		autoOpenID: autoOpenID,
		formName:   formName,
		formDesc:   formDesc,
	}
}

func (v *GroupListView) Init() tea.Cmd {
	return v.loadGroups
}

func (v *GroupListView) loadGroups() tea.Msg {
	if err := v.board.LoadGroups(context.Background()); err != nil {
		return err
	}
	return groupsLoadedMsg{groups: v.board.Groups()}
}

func (v *GroupListView) saveGroup() tea.Cmd {
	name := strings.TrimSpace(v.formName.Value())
	desc := strings.TrimSpace(v.formDesc.Value())

	var editingID *int64
	if v.editing {
		id := v.editingID
		editingID = &id
	}

	return func() tea.Msg {
		err := v.board.SaveGroup(context.Background(), api.GroupInput{Name: name, Description: desc}, editingID)
		if err != nil {
			return err
		}
		return groupsLoadedMsg{groups: v.board.Groups()}
	}
}

func (v *GroupListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case groupsLoadedMsg:
		items := make([]list.Item, len(msg.groups))
		for i, g := range msg.groups {
			items[i] = groupItem{group: g}
		}
		v.list.SetItems(items)
		v.loaded = true
		v.errText = ""

		if v.autoOpenID != 0 {
			for _, g := range msg.groups {
				if g.ID == v.autoOpenID {
					v.autoOpenID = 0
					return v, func() tea.Msg { return SelectedGroup{Group: g} }
				}
			}
			v.autoOpenID = 0
		}
		return v, nil

	case error:
		v.errText = msg.Error()
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating || v.editing {
			return v.updateForm(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			// Only q quits from the group list
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.creating = true
			v.focusIdx = 0
			v.formName.Reset()
			v.formDesc.Reset()
			v.formName.Focus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			if item, ok := v.list.SelectedItem().(groupItem); ok {
				v.editing = true
				v.editingID = item.group.ID
				v.focusIdx = 0
				v.formName.SetValue(item.group.Name)
				v.formDesc.SetValue(item.group.Description)
				v.formName.Focus()
				return v, textinput.Blink
			}
		case key.Matches(msg, v.keys.Dashboard):
			return v, func() tea.Msg { return ShowDashboard{} }
		case key.Matches(msg, v.keys.Archive):
			return v, func() tea.Msg { return ShowArchived{} }
		case msg.String() == "?":
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(groupItem); ok {
				return v, func() tea.Msg {
					return SelectedGroup{Group: item.group}
				}
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(groupItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.group.ID
				v.deleteTargetName = item.group.Name
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *GroupListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteTargetID
		v.confirmingDelete = false
		return v, func() tea.Msg {
			if err := v.board.DeleteGroup(context.Background(), id); err != nil {
				return err
			}
			return groupsLoadedMsg{groups: v.board.Groups()}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *GroupListView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		if strings.TrimSpace(v.formName.Value()) != "" {
			cmd := v.saveGroup()
			v.creating = false
			v.editing = false
			return v, cmd
		}
		return v, nil

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		if strings.TrimSpace(v.formName.Value()) != "" {
			cmd := v.saveGroup()
			v.creating = false
			v.editing = false
			return v, cmd
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.formName, cmd = v.formName.Update(msg)
	case 1:
		v.formDesc, cmd = v.formDesc.Update(msg)
	}
	return v, cmd
}

func (v *GroupListView) updateFocus() {
	v.formName.Blur()
	v.formDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.formName.Focus()
	case 1:
		v.formDesc.Focus()
	}
}

// View renders the view
func (v *GroupListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating || v.editing {
		return v.renderForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderHelp()
	if v.errText != "" {
		content += "\n" + v.styles.ErrorBar.Render(v.errText)
	}
	return styles.CenterView(content, v.width, v.height)
}

func (v *GroupListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Groups"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first group"),
		"",
		s.ButtonPrimary.Render(" New Group "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *GroupListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Group"
	if v.editing {
		formTitle = "Edit Group"
	}

	nameStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.formName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.formDesc.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *GroupListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s edit • %s del • %s dashboard • %s archive • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("g"),
			v.styles.HelpKey.Render("A"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *GroupListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open group",
		s.HelpKey.Render("n") + "      new group",
		s.HelpKey.Render("e") + "      edit group",
		s.HelpKey.Render("d") + "      delete group",
		s.HelpKey.Render("g") + "      dashboard",
		s.HelpKey.Render("A") + "      archived tasks",
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

func (v *GroupListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Group?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" and all its tasks will be deleted on the server.", v.deleteTargetName)),
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
