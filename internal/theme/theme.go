package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps the chat and bell panels.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for notification entries.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the focused notification entry.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and empty states.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders the soft failure states.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Italic(true)

// DimmedStyle renders read notifications and dates.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// UnreadMarkStyle marks unread notifications.
var UnreadMarkStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// UserLabelStyle and BotLabelStyle label chat bubbles.
var (
	UserLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)
	BotLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
)

// BadgeStyle renders the unread count next to the bell.
func BadgeStyle(pulsing bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if pulsing {
		return base.Foreground(ColorWhite).Background(ColorMagenta).Blink(true)
	}
	return base.Foreground(ColorWhite).Background(ColorRed)
}
