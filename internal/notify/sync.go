package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/remote"
)

// Remote is the part of the backend the bell talks to.
type Remote interface {
	UnreadCount(ctx context.Context) (int, error)
	Latest(ctx context.Context, limit int) ([]model.NotificationItem, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
}

// RefreshResult is the outcome of one refresh. Either half may have
// failed independently.
type RefreshResult struct {
	Count    int
	CountErr error
	Items    []model.NotificationItem
	ItemsErr error
	Pulsed   bool
}

// Err joins the errors of both halves, nil when the refresh succeeded.
func (r RefreshResult) Err() error {
	return errors.Join(r.CountErr, r.ItemsErr)
}

// Options configures a Sync.
type Options struct {
	// Limit defaults to remote.LatestLimit.
	Limit int

	// PulseDuration defaults to DefaultPulseDuration.
	PulseDuration time.Duration

	Logger *zap.Logger
}

// Sync keeps the bell in step with the backend. Refresh may be called
// repeatedly and concurrently; renders from overlapping refreshes are last
// write wins.
type Sync struct {
	remote    Remote
	cache     *Cache
	renderer  Renderer
	navigator Navigator
	loc       locale.Locale
	limit     int
	pulse     *Pulse
	logger    *zap.Logger

	mu    sync.Mutex
	state model.UnreadState
}

// NewSync wires a synchronizer. Call Init before the first Refresh to load
// the cached baseline.
func NewSync(r Remote, cache *Cache, renderer Renderer, nav Navigator, loc locale.Locale, opts Options) *Sync {
	s := &Sync{
		remote:    r,
		cache:     cache,
		renderer:  renderer,
		navigator: nav,
		loc:       loc,
		limit:     opts.Limit,
		logger:    opts.Logger,
	}
	if s.limit <= 0 {
		s.limit = remote.LatestLimit
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.pulse = NewPulse(opts.PulseDuration, renderer.SetPulsing)
	return s
}

// Init loads the persisted unread count as the pulse baseline. Without a
// persisted count the baseline is unknown.
func (s *Sync) Init(ctx context.Context) model.UnreadState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = model.UnreadState{}
	if count, ok := s.cache.Read(ctx); ok {
		s.state = model.UnreadState{Current: count, Previous: count, Known: true}
	}
	return s.state
}

// Reset forgets the baseline at session end, so the first fetch of the
// next session never pulses, and switches a running cue off.
func (s *Sync) Reset() {
	s.mu.Lock()
	s.state = model.UnreadState{}
	s.mu.Unlock()
	s.pulse.Stop()
}

// State returns the current unread state.
func (s *Sync) State() model.UnreadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pulsing reports whether the attention cue is on.
func (s *Sync) Pulsing() bool {
	return s.pulse.Active()
}

// Refresh fetches the unread count and the latest items concurrently and
// waits for both. A successful count updates the badge right away. The
// list shows the items only if both fetches succeeded and the failure
// message otherwise.
func (s *Sync) Refresh(ctx context.Context) RefreshResult {
	var (
		res RefreshResult
		g   errgroup.Group
	)

	g.Go(func() error {
		count, err := s.remote.UnreadCount(ctx)
		if err != nil {
			res.CountErr = fmt.Errorf("fetching unread count: %w", err)
			return res.CountErr
		}
		res.Count = count
		res.Pulsed = s.applyCount(ctx, count)
		return nil
	})

	g.Go(func() error {
		items, err := s.remote.Latest(ctx, s.limit)
		if err != nil {
			res.ItemsErr = fmt.Errorf("fetching latest notifications: %w", err)
			return res.ItemsErr
		}
		res.Items = items
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Info("notification refresh failed",
			zap.String("kind", remote.Kind(err)),
			zap.Error(res.Err()),
		)
		s.renderer.RenderList(FailedList(s.loc))
		return res
	}

	s.renderer.RenderList(BuildList(res.Items, s.loc))
	return res
}

// applyCount advances the unread state, persists it, renders the badge and
// pulses when the count grew past a known baseline.
func (s *Sync) applyCount(ctx context.Context, count int) bool {
	s.mu.Lock()
	pulse := s.state.ShouldPulse(count)
	s.state = s.state.Advance(count)
	s.cache.Write(ctx, count)
	s.mu.Unlock()

	s.renderer.RenderBadge(BuildBadge(count))
	if pulse {
		s.pulse.Trigger()
	}
	return pulse
}

// MarkOneRead marks id as read and then navigates to target (or the
// default route) whether or not the request succeeded. The request error
// is returned for logging only.
func (s *Sync) MarkOneRead(ctx context.Context, id int64, target string) error {
	err := s.remote.MarkRead(ctx, id)
	if err != nil {
		s.logger.Info("mark read failed, navigating anyway",
			zap.Int64("id", id),
			zap.String("kind", remote.Kind(err)),
			zap.Error(err),
		)
		err = fmt.Errorf("marking notification %d read: %w", id, err)
	}
	if s.navigator != nil {
		s.navigator.Navigate(TargetOf(target))
	}
	return err
}

// MarkAllRead marks every notification read and refreshes on success. On
// failure nothing is re-rendered.
func (s *Sync) MarkAllRead(ctx context.Context) (RefreshResult, error) {
	if err := s.remote.MarkAllRead(ctx); err != nil {
		s.logger.Info("mark all read failed",
			zap.String("kind", remote.Kind(err)),
			zap.Error(err),
		)
		return RefreshResult{}, fmt.Errorf("marking all notifications read: %w", err)
	}
	return s.Refresh(ctx), nil
}

// Close switches off a running pulse and cancels its timer.
func (s *Sync) Close() {
	s.pulse.Stop()
}
