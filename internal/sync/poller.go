package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/campuscalm-widgets/internal/notify"
)

// SyncState represents the current state of the bell refresh loop.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the state of the last refresh.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// RefreshResultMsg is a tea.Msg sent when a refresh completes.
type RefreshResultMsg struct {
	Result notify.RefreshResult
}

// Refresher is what the poller drives; *notify.Sync satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) notify.RefreshResult
}

// defaultFetchTimeout bounds a single refresh when none is configured.
const defaultFetchTimeout = 30 * time.Second

// Poller refreshes the bell at startup, on every tick, and whenever it is
// triggered (the dropdown being opened, mark-all-read).
type Poller struct {
	refresher Refresher
	events    *Events
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger

	triggerCh chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	wg        gosync.WaitGroup

	mu      gosync.Mutex
	running bool
	status  SyncStatus
}

// New creates a Poller. A zero interval disables periodic refreshes.
func New(r Refresher, events *Events, interval, timeout time.Duration, logger *zap.Logger) *Poller {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		refresher: r,
		events:    events,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
		triggerCh: make(chan struct{}, 16),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to events.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop()

	return p.events.Wait()
}

// Stop halts the polling goroutine, abandoning an in-flight refresh, and
// waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		p.cancel()
		return
	}
	p.running = false
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

// Trigger requests an immediate refresh without blocking.
func (p *Poller) Trigger() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A refresh is already queued.
	}
}

// Status returns the state of the most recent refresh.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// WaitForNextResult returns a tea.Cmd that waits for the next event.
// This should be called after handling every event message.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.events.Wait()
}

func (p *Poller) loop() {
	defer p.wg.Done()

	var tick <-chan time.Time
	if p.interval > 0 {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	// Do an initial refresh immediately
	p.refresh()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-tick:
			p.refresh()
		case <-p.triggerCh:
			p.refresh()
		}
	}
}

func (p *Poller) refresh() {
	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	res := p.refresher.Refresh(ctx)
	if p.ctx.Err() != nil {
		return
	}

	err := res.Err()
	if err != nil {
		p.setStatus(SyncError, err)
	} else {
		p.setStatus(SyncIdle, nil)
	}
	p.logger.Debug("bell refreshed",
		zap.Int("unread", res.Count),
		zap.Bool("pulsed", res.Pulsed),
		zap.Error(err),
	)
	p.events.Send(RefreshResultMsg{Result: res})
}

func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle {
		p.status.LastSync = time.Now()
	}
}
