package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
)

var sample = []model.Message{
	{Role: model.RoleBot, Text: "Oi!\nTudo bem?"},
	{Role: model.RoleUser, Text: "Estou cansado"},
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "md": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, locale.Portuguese, sample))

	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "pt", doc.Locale)
	assert.Equal(t, sample, doc.Messages)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, locale.English, sample))

	var doc document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "en", doc.Locale)
	assert.Equal(t, sample, doc.Messages)
}

func TestMarkdown(t *testing.T) {
	got := Markdown(locale.Portuguese, sample)
	want := "# Conversa\n\n" +
		"**CampusCalm:**\n\n> Oi!\n> Tudo bem?\n\n" +
		"**Voce:**\n\n> Estou cansado\n\n"
	assert.Equal(t, want, got)
}
