package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/remote"
	"github.com/nhle/campuscalm-widgets/internal/reply"
)

// DefaultFallbackDelay is the pause before a locally generated reply is
// appended after a failed remote call.
const DefaultFallbackDelay = 300 * time.Millisecond

var errNoBackend = errors.New("no chat backend configured")

// State is the lifecycle position of one submitted message.
type State int

const (
	StateIdle State = iota
	StateSubmitted
	StateAwaitingRemote
	StateRemoteSucceeded
	StateRemoteFailed
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	case StateAwaitingRemote:
		return "awaiting_remote"
	case StateRemoteSucceeded:
		return "remote_succeeded"
	case StateRemoteFailed:
		return "remote_failed"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Replier fetches a reply for a user message from the backend.
type Replier interface {
	Chat(ctx context.Context, message string) (*model.ChatReply, error)
}

// Settlement describes the bot message that closed a submission.
type Settlement struct {
	SubmissionID string
	Reply        model.Message
	Fallback     bool
	Err          error
}

// Options configures a Pipeline.
type Options struct {
	// FallbackDelay defaults to DefaultFallbackDelay when zero.
	FallbackDelay time.Duration

	// OnSettled runs after the bot reply of a submission is appended,
	// on the submission's goroutine.
	OnSettled func(Settlement)

	Engine *reply.Engine
	Logger *zap.Logger
}

// Submission tracks one message through the pipeline.
type Submission struct {
	ID   string
	Text string

	mu       sync.Mutex
	state    State
	reply    model.Message
	fallback bool
	settled  bool
	done     chan struct{}
}

// State returns the current lifecycle state.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submission) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Done is closed once the submission settles or is abandoned by Close.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Reply returns the appended bot message and whether it came from the
// local rules. It is only meaningful after Done is closed and Settled
// reports true.
func (s *Submission) Reply() (msg model.Message, fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reply, s.fallback
}

// Settled reports whether a bot reply was appended for this submission.
func (s *Submission) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled
}

// Pipeline answers submitted messages. Each submission runs on its own
// goroutine so Submit never blocks on the network; submissions in flight
// at the same time may append their replies in any order.
type Pipeline struct {
	store  *Store
	remote Replier
	loc    locale.Locale
	engine *reply.Engine
	delay  time.Duration
	notify func(Settlement)
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders wg.Add in Submit against wg.Wait in Close.
	mu     sync.Mutex
	closed bool
}

// NewPipeline wires a pipeline to its conversation store and backend.
func NewPipeline(store *Store, remote Replier, loc locale.Locale, opts Options) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		store:  store,
		remote: remote,
		loc:    loc,
		engine: opts.Engine,
		delay:  opts.FallbackDelay,
		notify: opts.OnSettled,
		logger: opts.Logger,
		ctx:    ctx,
		cancel: cancel,
	}
	if p.engine == nil {
		p.engine = reply.NewEngine()
	}
	if p.delay <= 0 {
		p.delay = DefaultFallbackDelay
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// Submit appends the trimmed text as a user message and starts fetching a
// reply in the background. Text that is empty once trimmed is ignored and
// ok is false.
func (p *Pipeline) Submit(text string) (sub *Submission, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, false
	}

	sub = &Submission{
		ID:    uuid.NewString(),
		Text:  text,
		state: StateIdle,
		done:  make(chan struct{}),
	}

	p.store.Append(p.ctx, model.RoleUser, text)
	sub.setState(StateSubmitted)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(sub.done)
		p.run(sub)
	}()

	return sub, true
}

func (p *Pipeline) run(sub *Submission) {
	log := p.logger.With(zap.String("submission", sub.ID))

	sub.setState(StateAwaitingRemote)
	text, err := p.fetch(sub.Text)
	if p.ctx.Err() != nil {
		log.Debug("submission abandoned")
		return
	}

	fallback := err != nil
	if fallback {
		sub.setState(StateRemoteFailed)
		log.Info("chat reply unavailable, using local rules",
			zap.String("kind", remote.Kind(err)),
			zap.Error(err),
		)

		timer := time.NewTimer(p.delay)
		select {
		case <-timer.C:
		case <-p.ctx.Done():
			timer.Stop()
			log.Debug("submission abandoned during fallback delay")
			return
		}
		text = p.engine.Generate(sub.Text, p.loc)
	} else {
		sub.setState(StateRemoteSucceeded)
	}

	msg, _ := p.store.Append(p.ctx, model.RoleBot, text)

	sub.mu.Lock()
	sub.state = StateSettled
	sub.reply = msg
	sub.fallback = fallback
	sub.settled = true
	sub.mu.Unlock()

	if p.notify != nil {
		p.notify(Settlement{
			SubmissionID: sub.ID,
			Reply:        msg,
			Fallback:     fallback,
			Err:          err,
		})
	}
}

func (p *Pipeline) fetch(text string) (string, error) {
	if p.remote == nil {
		return "", errNoBackend
	}
	resp, err := p.remote.Chat(p.ctx, text)
	if err != nil {
		return "", err
	}
	return ComposeReply(resp, p.loc)
}

// Close abandons every submission still in flight and waits for their
// goroutines to exit. Abandoned submissions append nothing.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.closed = true
	p.cancel()
	p.mu.Unlock()
	p.wg.Wait()
}

// Wait blocks until every in-flight submission has settled.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}
