package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/session"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// LoggedIn signals a successful login
type LoggedIn struct{}

type loginDoneMsg struct{}

type registerDoneMsg struct{}

// LoginView is the credential form. It doubles as the registration form
// when toggled with ctrl+r.
type LoginView struct {
	session *session.Session
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	registering bool
	username    textinput.Model
	email       textinput.Model
	password    textinput.Model
	focusIdx    int
	busy        bool
	errText     string
	notice      string
}

// NewLoginView creates the login form
func NewLoginView(s *session.Session) *LoginView {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "Email address"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	return &LoginView{
		session:  s,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		username: username,
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// fieldCount is inputs plus the submit button
func (v *LoginView) fieldCount() int {
	if v.registering {
		return 4
	}
	return 3
}

func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()

	if v.registering {
		username := strings.TrimSpace(v.username.Value())
		return func() tea.Msg {
			if err := v.session.Register(context.Background(), username, email, password); err != nil {
				return err
			}
			return registerDoneMsg{}
		}
	}

	return func() tea.Msg {
		if err := v.session.Login(context.Background(), email, password); err != nil {
			return err
		}
		return loginDoneMsg{}
	}
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginDoneMsg:
		v.busy = false
		return v, func() tea.Msg { return LoggedIn{} }

	case registerDoneMsg:
		v.busy = false
		v.registering = false
		v.notice = "Account created, log in to continue"
		v.errText = ""
		v.focusIdx = 0
		v.updateFocus()
		return v, nil

	case error:
		v.busy = false
		v.errText = msg.Error()
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}

		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case msg.String() == "ctrl+r":
			v.registering = !v.registering
			v.errText = ""
			v.notice = ""
			v.focusIdx = 0
			v.updateFocus()
			return v, textinput.Blink

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + v.fieldCount() - 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < v.fieldCount()-1 {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			v.busy = true
			v.errText = ""
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch {
	case v.registering && v.focusIdx == 0:
		v.username, cmd = v.username.Update(msg)
	case v.focusIdx == v.emailIdx():
		v.email, cmd = v.email.Update(msg)
	case v.focusIdx == v.emailIdx()+1:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) emailIdx() int {
	if v.registering {
		return 1
	}
	return 0
}

func (v *LoginView) updateFocus() {
	v.username.Blur()
	v.email.Blur()
	v.password.Blur()

	switch {
	case v.registering && v.focusIdx == 0:
		v.username.Focus()
	case v.focusIdx == v.emailIdx():
		v.email.Focus()
	case v.focusIdx == v.emailIdx()+1:
		v.password.Focus()
	}
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	title := "Welcome Back"
	buttonLabel := " Log In "
	hint := "Tab: next • ↵: submit • Ctrl+R: sign up • Ctrl+C: quit"
	if v.registering {
		title = "Create Account"
		buttonLabel = " Sign Up "
		hint = "Tab: next • ↵: submit • Ctrl+R: back to login • Ctrl+C: quit"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.focusIdx == v.fieldCount()-1 {
		btnStyle = s.ButtonFocused
	}
	if v.busy {
		buttonLabel = " ... "
	}

	rows := []string{s.Title.Render(title), ""}
	if v.registering {
		rows = append(rows,
			"Username:",
			fieldStyle(0).Width(inputWidth).Render(v.username.View()),
			"",
		)
	}
	rows = append(rows,
		"Email:",
		fieldStyle(v.emailIdx()).Width(inputWidth).Render(v.email.View()),
		"",
		"Password:",
		fieldStyle(v.emailIdx()+1).Width(inputWidth).Render(v.password.View()),
		"",
		btnStyle.Render(buttonLabel),
	)

	if v.errText != "" {
		rows = append(rows, "", s.ErrorBar.Render(v.errText))
	}
	if v.notice != "" {
		rows = append(rows, "", s.TitleMuted.Render(v.notice))
	}
	rows = append(rows, "", s.TitleMuted.Render(hint))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
