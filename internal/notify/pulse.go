package notify

import (
	"sync"
	"time"
)

// DefaultPulseDuration is how long the attention cue stays on.
const DefaultPulseDuration = 900 * time.Millisecond

// Pulse is a self-clearing attention cue. Triggering it while it is active
// restarts it: the cue is switched off and on again and the clear timer
// starts over.
type Pulse struct {
	mu       sync.Mutex
	duration time.Duration
	set      func(bool)
	timer    *time.Timer
	gen      uint64
	active   bool
}

// NewPulse creates a pulse that reports its on/off transitions to set.
func NewPulse(duration time.Duration, set func(bool)) *Pulse {
	if duration <= 0 {
		duration = DefaultPulseDuration
	}
	if set == nil {
		set = func(bool) {}
	}
	return &Pulse{duration: duration, set: set}
}

// Trigger starts or restarts the cue.
func (p *Pulse) Trigger() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
	if p.active {
		p.set(false)
	}

	p.gen++
	gen := p.gen
	p.active = true
	p.set(true)

	p.timer = time.AfterFunc(p.duration, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.gen != gen || !p.active {
			return
		}
		p.active = false
		p.timer = nil
		p.set(false)
	})
}

// Active reports whether the cue is currently on.
func (p *Pulse) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Stop cancels a pending clear and switches the cue off.
func (p *Pulse) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.active {
		p.active = false
		p.set(false)
	}
}
