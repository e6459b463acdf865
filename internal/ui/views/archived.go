package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/models"
	"taskdeck/internal/store"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// BackToGroupsFromArchive signals to leave the archive view
type BackToGroupsFromArchive struct{}

type archiveLoadedMsg struct {
	tasks []models.ArchivedTask
}

// ArchivedView is a read-only list of locally archived task snapshots
type ArchivedView struct {
	archive *store.Archive
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	tasks   []models.ArchivedTask
	cursor  int
	scrollY int
	loaded  bool
}

// NewArchivedView creates the archive list
func NewArchivedView(archive *store.Archive) *ArchivedView {
	return &ArchivedView{
		archive: archive,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
	}
}

func (v *ArchivedView) Init() tea.Cmd {
	return v.loadArchive
}

func (v *ArchivedView) loadArchive() tea.Msg {
	return archiveLoadedMsg{tasks: v.archive.List()}
}

func (v *ArchivedView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case archiveLoadedMsg:
		v.tasks = msg.tasks
		v.loaded = true
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToGroupsFromArchive{} }
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
				v.ensureVisible()
			}
			return v, nil
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.tasks)-1 {
				v.cursor++
				v.ensureVisible()
			}
			return v, nil
		}
	}

	return v, nil
}

func (v *ArchivedView) ensureVisible() {
	availableHeight := v.height - 10
	if availableHeight < 2 {
		availableHeight = 2
	}
	visibleItems := availableHeight / 2
	if visibleItems < 1 {
		visibleItems = 1
	}

	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// View renders the view
func (v *ArchivedView) View() string {
	s := v.styles

	if !v.loaded {
		return styles.CenterView(s.TitleMuted.Render("Loading..."), v.width, v.height)
	}

	if len(v.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render("Archived Tasks"),
			"",
			s.TitleMuted.Render("Nothing archived yet. Press 'A' on a task to archive it."),
		)
		return styles.CenterView(content, v.width, v.height)
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("Archived Tasks (%d)", len(v.tasks))))
	b.WriteString("\n\n")

	availableHeight := v.height - 10
	if availableHeight < 2 {
		availableHeight = 2
	}
	visibleItems := availableHeight / 2
	if visibleItems < 1 {
		visibleItems = 1
	}

	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	endIdx := min(v.scrollY+visibleItems, len(v.tasks))
	var items []string
	for i := v.scrollY; i < endIdx; i++ {
		at := v.tasks[i]

		prio := lipgloss.NewStyle().Foreground(styles.PriorityColor(at.Priority)).Render("● ")
		titleLine := prio + at.Title
		detail := fmt.Sprintf("archived %s • was %s at %d%%",
			at.ArchivedAt.Format("Jan 2, 2006"), at.Status, at.Progress)

		var titleStyle, detailStyle lipgloss.Style
		if i == v.cursor {
			titleStyle = s.ListSelected.Width(width)
			detailStyle = s.ListSelected.Width(width)
		} else {
			titleStyle = s.ListItem.Width(width)
			detailStyle = s.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
		}

		items = append(items, lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(titleLine),
			detailStyle.Render(detail),
		))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, items...))

	b.WriteString("\n")
	b.WriteString(s.Help.Render(
		fmt.Sprintf("%s back • %s quit",
			s.HelpKey.Render("esc"),
			s.HelpKey.Render("q"),
		),
	))

	return styles.CenterView(b.String(), v.width, v.height)
}
