package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	chatcore "github.com/nhle/campuscalm-widgets/internal/chat"
	"github.com/nhle/campuscalm-widgets/internal/export"
	"github.com/nhle/campuscalm-widgets/internal/keys"
	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/theme"
)

// CloseMsg signals the parent to close the chat panel.
type CloseMsg struct{}

// Model is the chat panel: the conversation viewport above a text input.
type Model struct {
	store    *chatcore.Store
	pipeline *chatcore.Pipeline
	loc      locale.Locale
	input    textarea.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer
	keys     *keys.KeyMap
	pending  int
	width    int
	height   int
}

// New creates a chat panel on top of an initialized conversation store.
func New(
	store *chatcore.Store,
	pipeline *chatcore.Pipeline,
	loc locale.Locale,
	k *keys.KeyMap,
	width, height int,
) Model {
	ta := textarea.New()
	ta.Placeholder = loc.Pick("Escreva o que esta te preocupando...", "Write what is worrying you...")
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.CharLimit = 2000

	vp := viewport.New(width-4, viewportHeight(height))
	vp.Style = lipgloss.NewStyle()

	m := Model{
		store:    store,
		pipeline: pipeline,
		loc:      loc,
		input:    ta,
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
	m.renderer = newRenderer(width)
	m.refreshViewport()
	return m
}

func viewportHeight(height int) int {
	h := height - 8 // space for input area + borders
	if h < 4 {
		h = 4
	}
	return h
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-8, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init returns the initial command for the chat panel.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyMsg(msg)
	}

	var cmds []tea.Cmd

	var taCmd tea.Cmd
	m.input, taCmd = m.input.Update(msg)
	if taCmd != nil {
		cmds = append(cmds, taCmd)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg {
			return CloseMsg{}
		}

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		if _, ok := m.pipeline.Submit(text); !ok {
			return m, nil
		}
		m.input.Reset()
		m.pending++
		m.refreshViewport()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Settled updates the panel after a submission appended its bot reply.
func (m *Model) Settled() {
	if m.pending > 0 {
		m.pending--
	}
	m.refreshViewport()
}

// Reload redraws the conversation from the store.
func (m *Model) Reload() {
	m.refreshViewport()
}

// refreshViewport re-renders the conversation and scrolls to the latest
// message.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation(m.store.History()))
	m.viewport.GotoBottom()
}

func (m Model) renderConversation(history []model.Message) string {
	contentStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	var sections []string
	for _, msg := range history {
		speaker := export.Speaker(m.loc, msg.Role) + ":"
		if msg.Role == model.RoleUser {
			sections = append(sections, theme.UserLabelStyle.Render(speaker))
			sections = append(sections, contentStyle.Render(msg.Text))
		} else {
			sections = append(sections, theme.BotLabelStyle.Render(speaker))
			sections = append(sections, m.renderBot(msg.Text))
		}
		sections = append(sections, "")
	}

	if m.pending > 0 {
		sections = append(sections, theme.HelpStyle.Render("..."))
	}

	return strings.Join(sections, "\n")
}

// renderBot formats a bot message. Micro-intervention lines are plain
// "- name: text" lines, so they render as a Markdown list.
func (m Model) renderBot(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(strings.ReplaceAll(text, "\n", "  \n"))
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// View renders the chat panel.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render(m.loc.Pick("Apoio CampusCalm", "CampusCalm Support"))

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(
		strings.Repeat("─", max(min(m.width-6, 80), 0)),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.viewport.View(),
		separator,
		m.input.View(),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 10)).
		Render(content)
}

// SetSize updates the chat panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 4)
	m.viewport.Width = width - 4
	m.viewport.Height = viewportHeight(height)
	m.renderer = newRenderer(width)
	m.refreshViewport()
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes keyboard focus from the text input.
func (m *Model) Blur() {
	m.input.Blur()
}

// Pending returns the number of submissions still waiting for a reply.
func (m Model) Pending() int {
	return m.pending
}
