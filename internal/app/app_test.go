package app

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campuscalm-widgets/internal/chat"
	"github.com/nhle/campuscalm-widgets/internal/credential"
	"github.com/nhle/campuscalm-widgets/internal/kvstore"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/notify"
	appsync "github.com/nhle/campuscalm-widgets/internal/sync"
	"github.com/nhle/campuscalm-widgets/internal/ui/command"
	"github.com/nhle/campuscalm-widgets/tests/testutil"
)

func testConfig(baseURL string) *model.AppConfig {
	cfg := model.DefaultAppConfig()
	cfg.Backend.BaseURL = baseURL
	cfg.Backend.TimeoutSec = 2
	cfg.Storage.Backend = "memory"
	cfg.Chat.FallbackDelayMS = 10
	cfg.Bell.PollIntervalSec = 0
	return cfg
}

func newTestRuntime(t *testing.T, opts RuntimeOptions) (*Runtime, *testutil.FakeBackend) {
	t.Helper()
	t.Setenv(credential.SessionCookieEnv, "sess-123")

	backend := testutil.NewFakeBackend(t)
	rt, err := NewRuntime(context.Background(), testConfig(backend.URL()), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt, backend
}

func TestNewRuntime_SeedsConversation(t *testing.T) {
	rt, _ := newTestRuntime(t, RuntimeOptions{})

	history := rt.Chat.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.RoleBot, history[0].Role)
	assert.Equal(t, chat.Greeting(rt.Locale), history[0].Text)
	assert.Equal(t, DefaultSessionID, rt.SessionID)
}

func TestNewRuntime_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("ftp://nowhere")
	_, err := NewRuntime(context.Background(), cfg, RuntimeOptions{})
	assert.Error(t, err)
}

func TestRuntime_ChatRoundTrip(t *testing.T) {
	settled := make(chan chat.Settlement, 1)
	rt, backend := newTestRuntime(t, RuntimeOptions{
		OnSettled: func(s chat.Settlement) { settled <- s },
	})
	backend.SetChat(http.StatusOK, `{"reply": "Respire fundo."}`)

	_, ok := rt.Pipeline.Submit("  estou ansioso  ")
	require.True(t, ok)

	select {
	case s := <-settled:
		assert.False(t, s.Fallback)
		assert.Equal(t, "Respire fundo.", s.Reply.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("submission never settled")
	}
	assert.Equal(t, []string{"estou ansioso"}, backend.ChatMessages())
	assert.Equal(t, 3, rt.Chat.Len())
}

func TestRuntime_BellRendersToSnapshot(t *testing.T) {
	snap := &notify.Snapshot{}
	rt, backend := newTestRuntime(t, RuntimeOptions{Renderer: snap, Navigator: snap})
	backend.SetUnread(http.StatusOK, 4)

	res := rt.Bell.Refresh(context.Background())
	require.NoError(t, res.Err())
	assert.Equal(t, "4", snap.Badge().Text)
	assert.Equal(t, notify.ListEmpty, snap.List().State)
}

func TestRuntime_EndSessionClearsStore(t *testing.T) {
	snap := &notify.Snapshot{}
	rt, backend := newTestRuntime(t, RuntimeOptions{Renderer: snap, Navigator: snap})
	ctx := context.Background()

	_, ok := rt.Chat.Append(ctx, model.RoleUser, "oi")
	require.True(t, ok)
	backend.SetUnread(http.StatusOK, 3)
	require.NoError(t, rt.Bell.Refresh(ctx).Err())

	require.NoError(t, rt.EndSession(ctx))
	assert.Len(t, rt.Chat.History(), 1)
	_, err := rt.KV.Get(ctx, notify.UnreadCacheKey)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
	assert.Equal(t, model.UnreadState{}, rt.Bell.State())
	assert.False(t, snap.Pulsing())

	// First fetch of the new session only sets the baseline.
	backend.SetUnread(http.StatusOK, 5)
	res := rt.Bell.Refresh(ctx)
	require.NoError(t, res.Err())
	assert.False(t, res.Pulsed)
	assert.False(t, snap.Pulsing())
	assert.Equal(t, "5", snap.Badge().Text)
}

func newTestModel(t *testing.T) (Model, *appsync.Events) {
	t.Helper()
	events := appsync.NewEvents(16)
	rt, _ := newTestRuntime(t, RuntimeOptions{
		Renderer:  events,
		Navigator: events,
		OnSettled: events.ChatSettled,
	})
	m := New(rt, events)
	t.Cleanup(m.shutdown)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), events
}

func TestModel_TabTogglesPanels(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, ViewChat, m.currentView)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, ViewBell, m.currentView)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, ViewChat, m.currentView)
}

func TestModel_EventsUpdateBellAndResubscribe(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(appsync.BadgeMsg{Badge: notify.BuildBadge(12)})
	m = updated.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, "12", m.bellView.Badge().Text)

	updated, cmd = m.Update(appsync.PulseMsg{On: true})
	m = updated.(Model)
	assert.NotNil(t, cmd)
	assert.True(t, m.bellView.Pulsing())
	assert.Contains(t, m.View(), "12")
}

func TestModel_NavigateShowsResolvedURL(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(appsync.NavigateMsg{URL: "/tarefas/"})
	m = updated.(Model)

	assert.True(t, strings.HasSuffix(m.message, "/tarefas/"))
	assert.Contains(t, m.message, m.runtime.Client.BaseURL())
}

func TestModel_QuitStopsBackgroundWork(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ShutdownWithFullEventBuffer(t *testing.T) {
	events := appsync.NewEvents(1)
	rt, _ := newTestRuntime(t, RuntimeOptions{
		Renderer:  events,
		Navigator: events,
		OnSettled: events.ChatSettled,
	})
	m := New(rt, events)

	events.Send(appsync.NavigateMsg{URL: "/"})
	require.NotNil(t, m.poller.Start())

	done := make(chan struct{})
	go func() {
		m.shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown blocked on a full event buffer")
	}
}

func TestModel_PaletteRunsCommands(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m = updated.(Model)
	assert.Equal(t, ViewCommand, m.currentView)

	updated, _ = m.Update(command.CommandMsg(command.Bell))
	m = updated.(Model)
	assert.Equal(t, ViewBell, m.currentView)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	m = updated.(Model)
	assert.Equal(t, ViewCommand, m.currentView)

	updated, _ = m.Update(command.CancelMsg{})
	m = updated.(Model)
	assert.Equal(t, ViewBell, m.currentView)
}
