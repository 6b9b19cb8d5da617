package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/campuscalm-widgets/internal/notify"
	"github.com/nhle/campuscalm-widgets/internal/theme"
)

// Layout manages the terminal frame dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the active panel,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderBell renders the bell with its badge. A hidden badge renders the
// bell alone.
func RenderBell(badge notify.BadgeView, pulsing bool) string {
	bell := theme.HeaderStyle.Render("🔔")
	if !badge.Visible {
		return bell
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, bell, theme.BadgeStyle(pulsing).Render(badge.Text))
}

// RenderHeader renders the top bar: title on the left, then the sync
// status and the bell on the right.
func (l Layout) RenderHeader(title, status, bell string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered) -
		lipgloss.Width(bell)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
		bell,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
