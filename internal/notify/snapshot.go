package notify

import "sync"

// Snapshot is a Renderer and Navigator that keeps the latest render in
// memory. The one-shot CLI commands print from it.
type Snapshot struct {
	mu        sync.Mutex
	badge     BadgeView
	list      ListView
	pulsing   bool
	navigated []string
}

// RenderBadge implements Renderer.
func (s *Snapshot) RenderBadge(b BadgeView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badge = b
}

// RenderList implements Renderer.
func (s *Snapshot) RenderList(l ListView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = l
}

// SetPulsing implements Renderer.
func (s *Snapshot) SetPulsing(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pulsing = on
}

// Navigate implements Navigator.
func (s *Snapshot) Navigate(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigated = append(s.navigated, url)
}

// Badge returns the last rendered badge.
func (s *Snapshot) Badge() BadgeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badge
}

// List returns the last rendered list.
func (s *Snapshot) List() ListView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

// Pulsing reports the last cue state.
func (s *Snapshot) Pulsing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulsing
}

// Navigated returns every URL navigated to, oldest first.
func (s *Snapshot) Navigated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigated...)
}
