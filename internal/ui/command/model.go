// Package command is the ":" palette of the interactive UI.
package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/theme"
)

// Name identifies a palette command.
type Name string

const (
	Refresh    Name = "refresh"
	ReadAll    Name = "read-all"
	Chat       Name = "chat"
	Bell       Name = "bell"
	EndSession Name = "end-session"
	Quit       Name = "quit"
)

// aliases maps accepted spellings, Portuguese included, to commands.
var aliases = map[string]Name{
	"refresh":     Refresh,
	"sync":        Refresh,
	"atualizar":   Refresh,
	"read-all":    ReadAll,
	"readall":     ReadAll,
	"lidas":       ReadAll,
	"chat":        Chat,
	"bell":        Bell,
	"sino":        Bell,
	"end-session": EndSession,
	"clear":       EndSession,
	"limpar":      EndSession,
	"quit":        Quit,
	"q":           Quit,
	"sair":        Quit,
}

// Parse resolves typed text to a command.
func Parse(text string) (Name, bool) {
	n, ok := aliases[strings.ToLower(strings.TrimSpace(text))]
	return n, ok
}

// CommandMsg is emitted when the user executes a known command.
type CommandMsg Name

// CancelMsg is emitted when the palette is dismissed.
type CancelMsg struct{}

// Model is the command palette view.
type Model struct {
	input   textinput.Model
	loc     locale.Locale
	unknown string
	width   int
	height  int
}

// New creates a new command palette model.
func New(loc locale.Locale, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = loc.Pick("digite um comando...", "type a command...")
	ti.Prompt = ": "
	ti.Width = width - 6

	return Model{
		input:  ti,
		loc:    loc,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.input.Reset()
			m.unknown = ""
			return m, func() tea.Msg { return CancelMsg{} }

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			name, ok := Parse(text)
			if !ok {
				m.unknown = text
				return m, nil
			}
			m.input.Reset()
			m.unknown = ""
			return m, func() tea.Msg { return CommandMsg(name) }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	lines := []string{
		titleStyle.Render(m.loc.Pick("Comandos", "Commands")),
		m.input.View(),
		"",
		theme.HelpStyle.Render("refresh | read-all | chat | bell | end-session | quit"),
	}
	if m.unknown != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.loc.Pick("Comando desconhecido: ", "Unknown command: ")+m.unknown))
	}

	return theme.PanelStyle.
		Width(max(m.width-4, 10)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
