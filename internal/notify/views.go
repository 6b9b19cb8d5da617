package notify

import (
	"strconv"

	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
)

// DefaultTarget is where an entry without a target URL navigates to.
const DefaultTarget = "/tarefas/"

// BadgeView is the render state of the unread badge.
type BadgeView struct {
	Count   int
	Text    string
	Visible bool
}

// BuildBadge renders count. A zero count hides the badge but still sets
// its text.
func BuildBadge(count int) BadgeView {
	return BadgeView{
		Count:   count,
		Text:    strconv.Itoa(count),
		Visible: count > 0,
	}
}

// ListState tells which form the dropdown list takes.
type ListState int

const (
	ListEntries ListState = iota
	ListEmpty
	ListFailed
)

// EntryView is one rendered notification.
type EntryView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"` // empty means no body line
	Date      string `json:"date,omitempty"`
	TargetURL string `json:"target_url"`
	Unread    bool   `json:"unread"`
}

// ListView is the render state of the dropdown list.
type ListView struct {
	State   ListState
	Entries []EntryView
	Message string
}

// Renderer draws the bell. Implementations must be safe to call from
// multiple goroutines; the last call wins.
type Renderer interface {
	RenderBadge(BadgeView)
	RenderList(ListView)
	SetPulsing(bool)
}

// Navigator follows a notification's link.
type Navigator interface {
	Navigate(url string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string)

// Navigate calls f(url).
func (f NavigatorFunc) Navigate(url string) { f(url) }

// BuildList renders items in the order received.
func BuildList(items []model.NotificationItem, loc locale.Locale) ListView {
	if len(items) == 0 {
		return ListView{
			State:   ListEmpty,
			Message: loc.Pick("Sem notificacoes recentes.", "No recent notifications."),
		}
	}

	entries := make([]EntryView, len(items))
	for i, item := range items {
		entries[i] = BuildEntry(item, loc)
	}
	return ListView{State: ListEntries, Entries: entries}
}

// BuildEntry renders a single notification.
func BuildEntry(item model.NotificationItem, loc locale.Locale) EntryView {
	title := item.Title
	if title == "" {
		title = loc.Pick("Notificacao", "Notification")
	}
	return EntryView{
		ID:        item.ID,
		Title:     title,
		Body:      item.Body,
		Date:      loc.FormatDate(item.CreatedAt.Time),
		TargetURL: TargetOf(item.TargetURL),
		Unread:    !item.IsRead,
	}
}

// FailedList is the list shown when a refresh fails.
func FailedList(loc locale.Locale) ListView {
	return ListView{
		State:   ListFailed,
		Message: loc.Pick("Nao foi possivel carregar notificacoes.", "Could not load notifications."),
	}
}

// TargetOf returns target, or DefaultTarget when it is empty.
func TargetOf(target string) string {
	if target == "" {
		return DefaultTarget
	}
	return target
}
