package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campuscalm-widgets/internal/locale"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Name
		ok   bool
	}{
		{"refresh", Refresh, true},
		{"  Atualizar ", Refresh, true},
		{"lidas", ReadAll, true},
		{"sair", Quit, true},
		{"clear", EndSession, true},
		{"dance", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModel_EnterEmitsKnownCommand(t *testing.T) {
	m := New(locale.English, 80, 24)
	m.Focus()
	m = typeText(m, "read-all")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg(ReadAll), cmd())
	assert.Empty(t, m.input.Value())
}

func TestModel_UnknownCommandStaysOpen(t *testing.T) {
	m := New(locale.English, 80, 24)
	m.Focus()
	m = typeText(m, "dance")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Unknown command: dance")
}

func TestModel_EscCancels(t *testing.T) {
	m := New(locale.English, 80, 24)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{}, cmd())
}
