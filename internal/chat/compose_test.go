package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/remote"
)

func decodeReply(t *testing.T, body string) *model.ChatReply {
	t.Helper()
	var r model.ChatReply
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	return &r
}

func TestComposeReply(t *testing.T) {
	tests := []struct {
		name string
		loc  locale.Locale
		body string
		want string
	}{
		{
			name: "reply only",
			loc:  locale.Portuguese,
			body: `{"reply": "  Vamos la.  "}`,
			want: "Vamos la.",
		},
		{
			name: "emoji prefix",
			loc:  locale.Portuguese,
			body: `{"reply": "Respire.", "emoji": " 🌿 "}`,
			want: "🌿 Respire.",
		},
		{
			name: "blank emoji ignored",
			loc:  locale.Portuguese,
			body: `{"reply": "Respire.", "emoji": "   "}`,
			want: "Respire.",
		},
		{
			name: "non-string emoji ignored",
			loc:  locale.Portuguese,
			body: `{"reply": "Respire.", "emoji": 5}`,
			want: "Respire.",
		},
		{
			name: "micro interventions pt",
			loc:  locale.Portuguese,
			body: `{"reply": "Ok.", "micro_interventions": [
				{"nome": "Respiracao", "texto": "4 ciclos lentos"},
				{"nome": "", "texto": "sem nome"},
				{"nome": "Sem texto"},
				{"nome": 3, "texto": "numero"},
				"solto",
				{"nome": "Agua", "texto": "beba um copo"},
				{"nome": " ", "texto": "so espaco"}
			]}`,
			want: "Ok.\n\nMicrointervencoes:\n- Respiracao: 4 ciclos lentos\n- Agua: beba um copo\n-  : so espaco",
		},
		{
			name: "micro interventions en with emoji",
			loc:  locale.English,
			body: `{"reply": "Sure.", "emoji": "✨", "micro_interventions": [{"nome": "Walk", "texto": "5 minutes outside"}]}`,
			want: "✨ Sure.\n\nMicro interventions:\n- Walk: 5 minutes outside",
		},
		{
			name: "no valid items means no block",
			loc:  locale.English,
			body: `{"reply": "Sure.", "micro_interventions": [{"nome": "x"}, null]}`,
			want: "Sure.",
		},
		{
			name: "interventions not a list",
			loc:  locale.English,
			body: `{"reply": "Sure.", "micro_interventions": {"nome": "x", "texto": "y"}}`,
			want: "Sure.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeReply(decodeReply(t, tt.body), tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeReply_InvalidPayload(t *testing.T) {
	for _, body := range []string{`{}`, `{"reply": ""}`, `{"reply": "   "}`} {
		_, err := ComposeReply(decodeReply(t, body), locale.Portuguese)
		assert.ErrorIs(t, err, remote.ErrInvalidPayload, body)
	}

	_, err := ComposeReply(nil, locale.Portuguese)
	assert.ErrorIs(t, err, remote.ErrInvalidPayload)
}
