package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/board"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// BackToGroupsFromDashboard signals to leave the dashboard
type BackToGroupsFromDashboard struct{}

type dashboardLoadedMsg struct {
	summary models.DashboardSummary
}

// DashboardView shows aggregate stats across every group
type DashboardView struct {
	board  *board.Board
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	loaded  bool
	errText string
	summary models.DashboardSummary
}

// NewDashboardView creates the dashboard
func NewDashboardView(b *board.Board) *DashboardView {
	return &DashboardView{
		board:  b,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *DashboardView) Init() tea.Cmd {
	return v.loadDashboard
}

func (v *DashboardView) loadDashboard() tea.Msg {
	summary, err := v.board.FetchDashboard(context.Background())
	if err != nil {
		return err
	}
	return dashboardLoadedMsg{summary: summary}
}

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case dashboardLoadedMsg:
		v.summary = msg.summary
		v.loaded = true
		v.errText = ""
		return v, nil

	case error:
		v.errText = msg.Error()
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToGroupsFromDashboard{} }
		case msg.String() == "r":
			v.loaded = false
			return v, v.loadDashboard
		}
	}

	return v, nil
}

// View renders the view
func (v *DashboardView) View() string {
	s := v.styles

	if !v.loaded {
		return styles.CenterView(s.TitleMuted.Render("Loading dashboard..."), v.width, v.height)
	}

	if v.errText != "" {
		content := lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render("Dashboard"),
			"",
			s.ErrorBar.Render(v.errText),
			"",
			s.TitleMuted.Render("Press 'r' to retry, esc to go back"),
		)
		return styles.CenterView(content, v.width, v.height)
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(v.renderStatCards())
	b.WriteString("\n\n")
	b.WriteString(v.renderPriorityChart())
	b.WriteString("\n\n")
	b.WriteString(v.renderWeeklyChart())
	b.WriteString("\n\n")
	b.WriteString(v.renderRecentTasks())
	b.WriteString("\n\n")
	b.WriteString(s.Help.Render(
		fmt.Sprintf("%s refresh • %s back • %s quit",
			s.HelpKey.Render("r"),
			s.HelpKey.Render("esc"),
			s.HelpKey.Render("q"),
		),
	))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *DashboardView) renderStatCards() string {
	s := v.styles
	t := v.summary.Tasks

	card := func(label, value string) string {
		return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Center,
			s.TitleMuted.Render(label),
			s.Title.Render(value),
		))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Groups", fmt.Sprintf("%d", v.summary.Groups)),
		" ",
		card("Tasks", fmt.Sprintf("%d", t.Total)),
		" ",
		card("Active", fmt.Sprintf("%d", t.Active)),
		" ",
		card("Done", fmt.Sprintf("%d", t.Completed)),
		" ",
		card("Completion", fmt.Sprintf("%d%%", t.CompletionRate)),
	)
}

// barChart renders a horizontal bar per row, scaled to the largest value
func barChart(rows []string, values []int, colors []lipgloss.Color, maxBarWidth int) string {
	maxVal := 0
	for _, val := range values {
		if val > maxVal {
			maxVal = val
		}
	}

	labelWidth := 0
	for _, r := range rows {
		if len(r) > labelWidth {
			labelWidth = len(r)
		}
	}

	var lines []string
	for i, r := range rows {
		barLen := 0
		if maxVal > 0 {
			barLen = values[i] * maxBarWidth / maxVal
		}
		if values[i] > 0 && barLen == 0 {
			barLen = 1
		}
		bar := lipgloss.NewStyle().Foreground(colors[i%len(colors)]).
			Render(strings.Repeat("█", barLen))
		lines = append(lines, fmt.Sprintf("%-*s %s %d", labelWidth, r, bar, values[i]))
	}
	return strings.Join(lines, "\n")
}

func (v *DashboardView) renderPriorityChart() string {
	s := v.styles

	slices := board.PriorityChart(v.summary)
	if len(slices) == 0 {
		return s.TitleMuted.Render("Tasks by Priority") + "\n" + s.TitleMuted.Render("  no data")
	}

	rows := make([]string, len(slices))
	values := make([]int, len(slices))
	colors := make([]lipgloss.Color, len(slices))
	for i, sl := range slices {
		rows[i] = sl.Name
		values[i] = sl.Value
		colors[i] = styles.PriorityColor(models.Priority(strings.ToUpper(sl.Name)))
	}

	maxBarWidth := clamp(styles.ContentWidth(v.width)-20, 10, 40)
	return s.TitleMuted.Render("Tasks by Priority") + "\n" + barChart(rows, values, colors, maxBarWidth)
}

func (v *DashboardView) renderWeeklyChart() string {
	s := v.styles

	week := board.WeeklyChart(v.summary)
	rows := make([]string, len(week))
	values := make([]int, len(week))
	for i, day := range week {
		rows[i] = day.Day
		values[i] = day.Total
	}

	maxBarWidth := clamp(styles.ContentWidth(v.width)-20, 10, 40)
	colors := []lipgloss.Color{styles.Current.Primary}
	return s.TitleMuted.Render("Weekly Activity") + "\n" + barChart(rows, values, colors, maxBarWidth)
}

func (v *DashboardView) renderRecentTasks() string {
	s := v.styles

	if len(v.summary.RecentTasks) == 0 {
		return s.TitleMuted.Render("Recent Tasks") + "\n" + s.TitleMuted.Render("  none")
	}

	var lines []string
	limit := min(len(v.summary.RecentTasks), 5)
	for _, t := range v.summary.RecentTasks[:limit] {
		prio := lipgloss.NewStyle().Foreground(styles.PriorityColor(t.Priority)).Render("●")
		status := lipgloss.NewStyle().Foreground(styles.StatusColor(t.Status)).Render(string(t.Status))
		lines = append(lines, fmt.Sprintf("%s %s  %s", prio, t.Title, status))
	}

	return s.TitleMuted.Render("Recent Tasks") + "\n" + strings.Join(lines, "\n")
}
