package bell

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/campuscalm-widgets/internal/keys"
	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/notify"
	"github.com/nhle/campuscalm-widgets/internal/theme"
)

// CloseMsg signals the parent to close the bell dropdown.
type CloseMsg struct{}

// ActionDoneMsg reports the outcome of a mark-read action.
type ActionDoneMsg struct {
	Err error
}

// Actions is the part of notify.Sync the dropdown drives.
type Actions interface {
	MarkOneRead(ctx context.Context, id int64, target string) error
	MarkAllRead(ctx context.Context) (notify.RefreshResult, error)
}

// Model is the notification dropdown.
type Model struct {
	actions Actions
	loc     locale.Locale
	keys    *keys.KeyMap
	timeout time.Duration

	badge   notify.BadgeView
	list    notify.ListView
	loaded  bool
	pulsing bool
	cursor  int
	width   int
	height  int
}

// New creates the dropdown. timeout bounds each mark-read action.
func New(actions Actions, loc locale.Locale, k *keys.KeyMap, timeout time.Duration, width, height int) Model {
	return Model{
		actions: actions,
		loc:     loc,
		keys:    k,
		timeout: timeout,
		badge:   notify.BuildBadge(0),
		width:   width,
		height:  height,
	}
}

// SetBadge stores the latest badge render.
func (m *Model) SetBadge(b notify.BadgeView) {
	m.badge = b
}

// SetList stores the latest list render and keeps the cursor in range.
func (m *Model) SetList(l notify.ListView) {
	m.list = l
	m.loaded = true
	if m.cursor >= len(l.Entries) {
		m.cursor = max(len(l.Entries)-1, 0)
	}
}

// SetPulsing switches the bell cue.
func (m *Model) SetPulsing(on bool) {
	m.pulsing = on
}

// Badge returns the last rendered badge.
func (m Model) Badge() notify.BadgeView {
	return m.badge
}

// Pulsing reports whether the cue is on.
func (m Model) Pulsing() bool {
	return m.pulsing
}

// Selected returns the focused entry.
func (m Model) Selected() (notify.EntryView, bool) {
	if m.list.State != notify.ListEntries || m.cursor >= len(m.list.Entries) {
		return notify.EntryView{}, false
	}
	return m.list.Entries[m.cursor], true
}

// Update handles messages for the dropdown.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back, m.keys.Bell):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.list.Entries)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Open):
		entry, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, m.markOne(entry)

	case key.Matches(keyMsg, m.keys.MarkAll):
		return m, m.MarkAll()
	}

	return m, nil
}

func (m Model) markOne(entry notify.EntryView) tea.Cmd {
	actions, timeout := m.actions, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ActionDoneMsg{Err: actions.MarkOneRead(ctx, entry.ID, entry.TargetURL)}
	}
}

// MarkAll returns a command that marks every notification read.
func (m Model) MarkAll() tea.Cmd {
	actions, timeout := m.actions, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := actions.MarkAllRead(ctx)
		return ActionDoneMsg{Err: err}
	}
}

// View renders the dropdown.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := m.loc.Pick("Notificacoes", "Notifications")
	if m.badge.Visible {
		title = fmt.Sprintf("%s (%s)", title, m.badge.Text)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		m.renderList(),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 10)).
		Height(max(m.height-4, 3)).
		Render(content)
}

func (m Model) renderList() string {
	if !m.loaded {
		return theme.HelpStyle.Render(m.loc.Pick("Carregando...", "Loading..."))
	}

	switch m.list.State {
	case notify.ListFailed:
		return theme.ErrorStyle.Render(m.list.Message)
	case notify.ListEmpty:
		return theme.HelpStyle.Render(m.list.Message)
	}

	var rows []string
	for i, entry := range m.list.Entries {
		rows = append(rows, renderEntry(entry, i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

// renderEntry draws the title line, the optional body and the date.
func renderEntry(entry notify.EntryView, selected bool) string {
	mark := "  "
	if entry.Unread {
		mark = theme.UnreadMarkStyle.Render("● ")
	}

	lines := []string{mark + entry.Title}
	if entry.Body != "" {
		lines = append(lines, "  "+entry.Body)
	}
	if entry.Date != "" {
		lines = append(lines, "  "+theme.DimmedStyle.Render(entry.Date))
	}
	block := strings.Join(lines, "\n")

	if selected {
		return theme.SelectedItemStyle.Render(block)
	}
	return theme.ListItemStyle.Render(block)
}

// SetSize updates the dropdown dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
