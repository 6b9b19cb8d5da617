package model

import (
	"encoding/json"
	"strings"
	"time"
)

// NotificationItem is an in-app notification as returned by the backend.
// The client never builds or edits one; it only renders it and relays
// mark-read requests for it.
type NotificationItem struct {
	// ID is the backend identifier of the notification.
	ID int64 `json:"id"`

	// Title is the short headline.
	Title string `json:"title"`

	// Body is the optional longer text; empty bodies are not rendered.
	Body string `json:"body"`

	// CreatedAt is when the backend created the notification.
	CreatedAt Timestamp `json:"created_at"`

	// IsRead indicates whether the user has already read it.
	IsRead bool `json:"is_read"`

	// TargetURL is where the user lands after opening the notification.
	TargetURL string `json:"target_url"`
}

// Timestamp is a backend timestamp that decodes leniently: a missing,
// null or unparseable value decodes to the zero time instead of failing
// the whole payload.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = ParseTimestamp(raw)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// ParseTimestamp parses the formats the backend emits. Unknown formats
// yield the zero time.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// UnreadState is the bell's view of the unread count. Previous is only
// meaningful when Known is true; it is unknown before the first successful
// fetch of a session unless a count was persisted earlier.
type UnreadState struct {
	Current  int  `json:"current"`
	Previous int  `json:"previous"`
	Known    bool `json:"known"`
}

// ShouldPulse reports whether moving to next deserves an attention cue:
// only when a previous count is known and next is strictly greater.
func (s UnreadState) ShouldPulse(next int) bool {
	return s.Known && next > s.Previous
}

// Advance returns the state after a successful fetch of next. The
// baseline always moves to next, whether or not a pulse fired.
func (s UnreadState) Advance(next int) UnreadState {
	return UnreadState{Current: next, Previous: next, Known: true}
}
