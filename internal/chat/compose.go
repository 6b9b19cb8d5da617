package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/remote"
)

// ComposeReply builds the bot text from a chat endpoint payload: optional
// emoji prefix, the trimmed reply, then an optional micro-intervention
// block. A payload without a non-empty reply is invalid.
func ComposeReply(resp *model.ChatReply, loc locale.Locale) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("chat reply: empty payload: %w", remote.ErrInvalidPayload)
	}
	text := strings.TrimSpace(resp.Reply)
	if text == "" {
		return "", fmt.Errorf("chat reply: missing reply: %w", remote.ErrInvalidPayload)
	}

	var b strings.Builder
	if emoji := emojiPrefix(resp.Emoji); emoji != "" {
		b.WriteString(emoji)
		b.WriteString(" ")
	}
	b.WriteString(text)
	b.WriteString(interventionBlock(resp.MicroInterventions, loc))
	return b.String(), nil
}

func emojiPrefix(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var emoji string
	if err := json.Unmarshal(raw, &emoji); err != nil {
		return ""
	}
	return strings.TrimSpace(emoji)
}

// ParseInterventions returns the well-formed items of raw. Items without a
// non-empty string nome and texto are skipped.
func ParseInterventions(raw json.RawMessage) []model.MicroIntervention {
	if len(raw) == 0 {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	var items []model.MicroIntervention
	for _, elem := range elems {
		var item model.MicroIntervention
		if err := json.Unmarshal(elem, &item); err != nil {
			continue
		}
		if item.Nome == "" || item.Texto == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func interventionBlock(raw json.RawMessage, loc locale.Locale) string {
	items := ParseInterventions(raw)
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item.Nome + ": " + item.Texto
	}
	title := loc.Pick("Microintervencoes", "Micro interventions")
	return "\n\n" + title + ":\n" + strings.Join(lines, "\n")
}
