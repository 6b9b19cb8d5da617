package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/campuscalm-widgets/internal/notify"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
	block chan struct{}
}

func (c *countingRefresher) Refresh(ctx context.Context) notify.RefreshResult {
	c.calls.Add(1)
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return notify.RefreshResult{CountErr: ctx.Err()}
		}
	}
	return notify.RefreshResult{Count: 3, CountErr: c.err}
}

func nextMsg(t *testing.T, e *Events) any {
	t.Helper()
	done := make(chan any, 1)
	go func() { done <- e.Wait()() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestPoller_InitialRefreshAndTrigger(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	r := &countingRefresher{}
	events := NewEvents(8)
	defer events.Close()
	p := New(r, events, 0, time.Second, nil)

	require.NotNil(t, p.Start())
	msg := nextMsg(t, events)
	require.IsType(t, RefreshResultMsg{}, msg)
	assert.Equal(t, 3, msg.(RefreshResultMsg).Result.Count)

	p.Trigger()
	nextMsg(t, events)
	assert.Equal(t, int32(2), r.calls.Load())
	assert.Equal(t, SyncIdle, p.Status().State)
	assert.False(t, p.Status().LastSync.IsZero())

	assert.Nil(t, p.Start(), "second start is a no-op")
	p.Stop()
}

func TestPoller_TicksAndRecordsErrors(t *testing.T) {
	r := &countingRefresher{err: errors.New("down")}
	events := NewEvents(8)
	defer events.Close()
	p := New(r, events, 20*time.Millisecond, time.Second, nil)

	p.Start()
	defer p.Stop()

	nextMsg(t, events)
	nextMsg(t, events)
	assert.GreaterOrEqual(t, r.calls.Load(), int32(2))
	assert.Equal(t, SyncError, p.Status().State)
}

func TestPoller_StopAbandonsInFlightRefresh(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	r := &countingRefresher{block: make(chan struct{})}
	events := NewEvents(8)
	defer events.Close()
	p := New(r, events, 0, time.Hour, nil)

	p.Start()
	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	p.Stop()

	select {
	case msg := <-events.ch:
		t.Fatalf("unexpected event after stop: %#v", msg)
	default:
	}
}

func TestPoller_StopAfterEventsCloseWithFullBuffer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	r := &countingRefresher{}
	events := NewEvents(1)
	events.Send(NavigateMsg{URL: "/"})
	p := New(r, events, 0, time.Hour, nil)

	p.Start()
	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		events.Close()
		p.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop blocked on a full event buffer")
	}
}

func TestEvents_ImplementsRenderer(t *testing.T) {
	events := NewEvents(4)
	var r notify.Renderer = events
	var n notify.Navigator = events

	r.RenderBadge(notify.BuildBadge(2))
	r.SetPulsing(true)
	n.Navigate("/agenda/")

	assert.Equal(t, BadgeMsg{Badge: notify.BuildBadge(2)}, nextMsg(t, events))
	assert.Equal(t, PulseMsg{On: true}, nextMsg(t, events))
	assert.Equal(t, NavigateMsg{URL: "/agenda/"}, nextMsg(t, events))

	events.Close()
	events.RenderList(notify.ListView{})
	assert.Nil(t, events.Wait()())
}
