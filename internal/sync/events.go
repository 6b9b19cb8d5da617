package sync

import (
	gosync "sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/campuscalm-widgets/internal/chat"
	"github.com/nhle/campuscalm-widgets/internal/notify"
)

// BadgeMsg is a tea.Msg carrying a new badge render.
type BadgeMsg struct {
	Badge notify.BadgeView
}

// ListMsg is a tea.Msg carrying a new dropdown list render.
type ListMsg struct {
	List notify.ListView
}

// PulseMsg is a tea.Msg sent when the bell cue switches on or off.
type PulseMsg struct {
	On bool
}

// NavigateMsg is a tea.Msg asking the UI to follow a notification link.
type NavigateMsg struct {
	URL string
}

// ChatSettledMsg is a tea.Msg sent when a chat submission appended its
// bot reply.
type ChatSettledMsg struct {
	Settlement chat.Settlement
}

// Events turns widget callbacks, which arrive on background goroutines,
// into messages for the Bubble Tea runtime. It implements
// notify.Renderer and notify.Navigator.
type Events struct {
	ch     chan tea.Msg
	done   chan struct{}
	closed gosync.Once
}

// NewEvents creates an event bridge with the given buffer size.
func NewEvents(size int) *Events {
	if size <= 0 {
		size = 64
	}
	return &Events{
		ch:   make(chan tea.Msg, size),
		done: make(chan struct{}),
	}
}

// RenderBadge implements notify.Renderer.
func (e *Events) RenderBadge(b notify.BadgeView) { e.Send(BadgeMsg{Badge: b}) }

// RenderList implements notify.Renderer.
func (e *Events) RenderList(l notify.ListView) { e.Send(ListMsg{List: l}) }

// SetPulsing implements notify.Renderer.
func (e *Events) SetPulsing(on bool) { e.Send(PulseMsg{On: on}) }

// Navigate implements notify.Navigator.
func (e *Events) Navigate(url string) { e.Send(NavigateMsg{URL: url}) }

// ChatSettled is a chat.Options OnSettled hook.
func (e *Events) ChatSettled(s chat.Settlement) { e.Send(ChatSettledMsg{Settlement: s}) }

// Send queues msg for the UI. It blocks while the buffer is full and
// returns immediately once the bridge is closed, so renders are never
// dropped while the UI is running.
func (e *Events) Send(msg tea.Msg) {
	select {
	case <-e.done:
		return
	default:
	}
	select {
	case e.ch <- msg:
	case <-e.done:
	}
}

// Wait returns a tea.Cmd that waits for the next event. Call it again
// after handling each event to keep listening.
func (e *Events) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-e.ch:
			return msg
		case <-e.done:
			return nil
		}
	}
}

// Close stops delivery. Pending and future sends are discarded.
func (e *Events) Close() {
	e.closed.Do(func() { close(e.done) })
}
