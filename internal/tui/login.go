// Package tui renders the operator login screen. It is a thin layer:
// keystrokes write through to the login workflow's observable
// properties and the Enter key triggers its login command; all
// decisions live in the workflow. The bubbletea program loop is the
// single execution context that owns presentation state.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scangate/internal/commands"
	"scangate/internal/services"
)

// Authenticator is the slice of the login workflow the screen binds to.
type Authenticator interface {
	SetUsername(v string) bool
	SetPassword(v string) bool
	Attempt(ctx context.Context) services.Result
	LoginCommand() *commands.Relay
}

// field identifies which input has keyboard focus.
type field int

const (
	fieldUsername field = iota
	fieldPassword
)

// attemptMsg carries a finished login attempt back into the update loop.
type attemptMsg struct {
	result services.Result
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	focusStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	promptGlyph = "> "
)

// Model is the login screen state.
type Model struct {
	auth Authenticator

	focus      field
	username   []rune
	password   []rune
	validating bool

	result        *services.Result
	authenticated bool
	quitting      bool
}

// NewModel creates the login screen bound to the given workflow.
func NewModel(auth Authenticator) Model {
	return Model{auth: auth}
}

// Authenticated reports whether the operator got through the gate.
func (m Model) Authenticated() bool {
	return m.authenticated
}

// Result returns the last attempt's terminal state, if any.
func (m Model) Result() *services.Result {
	return m.result
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case attemptMsg:
		m.validating = false
		result := msg.result
		m.result = &result
		if result.Outcome == services.OutcomeAuthenticated {
			m.authenticated = true
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown, tea.KeyShiftTab, tea.KeyUp:
		// Two fields, so forward and backward meet.
		m.focus = (m.focus + 1) % 2
		return m, nil

	case tea.KeyEnter:
		if m.validating {
			return m, nil
		}
		m.validating = true
		return m, m.submit()

	case tea.KeyBackspace:
		if line := m.focused(); len(*line) > 0 {
			*line = (*line)[:len(*line)-1]
			m.writeThrough()
		}
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		line := m.focused()
		*line = append(*line, msg.Runes...)
		m.writeThrough()
		return m, nil
	}
	return m, nil
}

func (m *Model) focused() *[]rune {
	if m.focus == fieldPassword {
		return &m.password
	}
	return &m.username
}

// writeThrough mirrors the edited field into the workflow's observable
// properties on every keystroke.
func (m *Model) writeThrough() {
	if m.focus == fieldPassword {
		m.auth.SetPassword(string(m.password))
	} else {
		m.auth.SetUsername(string(m.username))
	}
}

// submit runs the login attempt off the update loop and reports the
// terminal state back as a message. Execution is gated behind the
// login command's availability, as any bound control would be.
func (m Model) submit() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		if !auth.LoginCommand().CanExecute(nil) {
			return attemptMsg{result: services.Result{
				Outcome: services.OutcomeRejected,
				Message: "login is not available right now",
			}}
		}
		return attemptMsg{result: auth.Attempt(context.Background())}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("scangate — operator login"))
	b.WriteString("\n\n")
	b.WriteString(m.renderField("username", string(m.username), fieldUsername))
	b.WriteString("\n")
	b.WriteString(m.renderField("password", strings.Repeat("•", len(m.password)), fieldPassword))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab: switch field · enter: log in · esc: quit"))

	return boxStyle.Render(b.String()) + "\n"
}

func (m Model) renderField(label, value string, f field) string {
	line := labelStyle.Render(label) + "  " + promptGlyph + value
	if m.focus == f {
		return focusStyle.Render(line + "█")
	}
	return line
}

func (m Model) renderStatus() string {
	if m.validating {
		return hintStyle.Render("validating…")
	}
	if m.result == nil {
		return ""
	}
	switch m.result.Outcome {
	case services.OutcomeAuthenticated:
		return okStyle.Render(m.result.Message)
	case services.OutcomeFaulted:
		return errorStyle.Render(m.result.Message)
	default:
		return warnStyle.Render(m.result.Message)
	}
}
