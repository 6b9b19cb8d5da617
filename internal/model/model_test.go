package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnreadState_PulseSequence(t *testing.T) {
	// unknown -> 3 -> 3 -> 5 pulses only on the last transition.
	var state UnreadState
	var pulses []bool
	for _, next := range []int{3, 3, 5} {
		pulses = append(pulses, state.ShouldPulse(next))
		state = state.Advance(next)
	}
	assert.Equal(t, []bool{false, false, true}, pulses)
	assert.Equal(t, UnreadState{Current: 5, Previous: 5, Known: true}, state)
}

func TestUnreadState_NoPulseOnDecrease(t *testing.T) {
	state := UnreadState{Previous: 4, Known: true}
	assert.False(t, state.ShouldPulse(2))
	assert.False(t, state.ShouldPulse(4))
	assert.True(t, state.ShouldPulse(5))
}

func TestNotificationItem_Decode(t *testing.T) {
	payload := `[
		{"id": 7, "title": "Prova amanha", "body": "", "created_at": "2025-03-01T10:30:00Z", "is_read": false, "target_url": "/agenda/"},
		{"id": 8, "title": "Lembrete", "body": "Beber agua", "created_at": "not a date", "is_read": true, "target_url": ""},
		{"id": 9, "title": "Sem data", "created_at": null}
	]`

	var items []NotificationItem
	require.NoError(t, json.Unmarshal([]byte(payload), &items))
	require.Len(t, items, 3)

	assert.Equal(t, int64(7), items[0].ID)
	assert.True(t, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC).Equal(items[0].CreatedAt.Time))
	assert.True(t, items[1].CreatedAt.IsZero())
	assert.True(t, items[1].IsRead)
	assert.True(t, items[2].CreatedAt.IsZero())
}

func TestParseTimestamp(t *testing.T) {
	assert.False(t, ParseTimestamp("2025-03-01T10:30:00.123456-03:00").IsZero())
	assert.False(t, ParseTimestamp("2025-03-01 10:30:00").IsZero())
	assert.True(t, ParseTimestamp("").IsZero())
	assert.True(t, ParseTimestamp("yesterday").IsZero())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleBot.Valid())
	assert.False(t, Role("assistant").Valid())
	assert.False(t, Role("").Valid())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 300*time.Millisecond, cfg.FallbackDelay())
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend:
  base_url: https://campuscalm.example.com
locale: en-US
storage:
  backend: memory
bell:
  poll_interval_sec: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://campuscalm.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 10, cfg.Backend.TimeoutSec)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, time.Duration(0), cfg.PollInterval())
}

func TestSaveConfig_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Backend.BaseURL = "https://calm.example.org"
	cfg.Locale = "en"
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://calm.example.org", loaded.Backend.BaseURL)
	assert.Equal(t, "en", loaded.Locale)
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"empty base url", func(c *AppConfig) { c.Backend.BaseURL = "" }},
		{"no scheme", func(c *AppConfig) { c.Backend.BaseURL = "localhost:8000" }},
		{"zero timeout", func(c *AppConfig) { c.Backend.TimeoutSec = 0 }},
		{"bad backend", func(c *AppConfig) { c.Storage.Backend = "cookies" }},
		{"negative delay", func(c *AppConfig) { c.Chat.FallbackDelayMS = -1 }},
		{"negative poll", func(c *AppConfig) { c.Bell.PollIntervalSec = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAppConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
