// Package chat holds the support chat core: the persisted conversation and
// the pipeline that answers each submitted message, remotely when the
// backend responds and from local rules when it does not.
package chat

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/nhle/campuscalm-widgets/internal/kvstore"
	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
)

const historyKeyPrefix = "campuscalm_widget_history_v1_"

// HistoryKey is the storage key of the conversation for loc.
func HistoryKey(loc locale.Locale) string {
	return historyKeyPrefix + loc.Suffix()
}

// Store owns the ordered conversation history of one widget instance.
// Every mutation is written through to the session store before it
// returns, so the persisted copy never lags the in-memory one.
type Store struct {
	mu      sync.Mutex
	kv      *kvstore.BestEffort
	key     string
	history []model.Message
}

// NewStore creates a conversation store persisted under the key for loc.
func NewStore(kv *kvstore.BestEffort, loc locale.Locale) *Store {
	return &Store{
		kv:  kv,
		key: HistoryKey(loc),
	}
}

// Key returns the storage key this store persists under.
func (s *Store) Key() string {
	return s.key
}

// Load reads the persisted history. Unreadable or non-array data yields an
// empty history; array elements that are not valid messages are dropped.
func (s *Store) Load(ctx context.Context) []model.Message {
	raw, ok := s.kv.Read(ctx, s.key)
	if !ok || raw == "" {
		return nil
	}
	return decodeHistory(raw)
}

func decodeHistory(raw string) []model.Message {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil
	}

	history := make([]model.Message, 0, len(elems))
	for _, elem := range elems {
		var msg model.Message
		if err := json.Unmarshal(elem, &msg); err != nil {
			continue
		}
		if !msg.Role.Valid() || strings.TrimSpace(msg.Text) == "" {
			continue
		}
		history = append(history, msg)
	}
	return history
}

// Initialize loads the persisted history, seeds it with greeting when it
// is empty, and rewrites a leading bot legacy greeting to greeting. The
// result is persisted only if one of those rules applied.
func (s *Store) Initialize(ctx context.Context, greeting, legacy string) []model.Message {
	history := s.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	switch {
	case len(history) == 0:
		history = []model.Message{{Role: model.RoleBot, Text: greeting}}
		changed = true
	case history[0].Role == model.RoleBot && history[0].Text == legacy:
		history[0].Text = greeting
		changed = true
	}

	s.history = history
	if changed {
		s.persistLocked(ctx)
	}
	return s.snapshotLocked()
}

// Append adds a message and persists the history. Text that is empty once
// trimmed is rejected and ok is false.
func (s *Store) Append(ctx context.Context, role model.Role, text string) (msg model.Message, ok bool) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg = model.Message{Role: role, Text: text}
	s.history = append(s.history, msg)
	s.persistLocked(ctx)
	return msg, true
}

// History returns a copy of the in-memory history.
func (s *Store) History() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of messages in the history.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Store) snapshotLocked() []model.Message {
	out := make([]model.Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Store) persistLocked(ctx context.Context) {
	history := s.history
	if history == nil {
		history = []model.Message{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return
	}
	s.kv.Write(ctx, s.key, string(data))
}
