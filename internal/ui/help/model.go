// Package help renders the key binding overlay, one section per panel.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/campuscalm-widgets/internal/keys"
	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	loc    locale.Locale
	width  int
	height int
}

// New creates the overlay for k.
func New(k *keys.KeyMap, loc locale.Locale, width, height int) Model {
	h := help.New()
	h.Width = width - 4
	return Model{keys: k, help: h, loc: loc, width: width, height: height}
}

// Update is a no-op; the root model closes the overlay.
func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// sectionTitles name the groups of KeyMap.FullHelp, in order.
func (m Model) sectionTitles() []string {
	return []string{
		m.loc.Pick("Chat", "Chat"),
		m.loc.Pick("Notificacoes", "Notifications"),
		m.loc.Pick("Geral", "General"),
	}
}

// View renders the overlay.
func (m Model) View() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)

	blocks := []string{heading.Render(m.loc.Pick("Atalhos de teclado", "Keyboard Shortcuts"))}
	titles := m.sectionTitles()
	for i, group := range m.keys.FullHelp() {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		blocks = append(blocks, sectionStyle.Render(title), m.renderGroup(group), "")
	}

	return theme.PanelStyle.
		Width(max(m.width-4, 10)).
		Height(max(m.height-4, 3)).
		Render(strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, blocks...), "\n"))
}

func (m Model) renderGroup(bindings []key.Binding) string {
	var lines []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		lines = append(lines, "  "+m.help.Styles.FullKey.Render(h.Key)+"  "+m.help.Styles.FullDesc.Render(h.Desc))
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
