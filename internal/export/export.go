// Package export renders a conversation history for the chat history
// command.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nhle/campuscalm-widgets/internal/locale"
	"github.com/nhle/campuscalm-widgets/internal/model"
)

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml or markdown)", s)
	}
}

type document struct {
	Locale   string          `json:"locale" yaml:"locale"`
	Messages []model.Message `json:"messages" yaml:"messages"`
}

// Write renders history to w in format f.
func Write(w io.Writer, f Format, loc locale.Locale, history []model.Message) error {
	if history == nil {
		history = []model.Message{}
	}
	doc := document{Locale: string(loc), Messages: history}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()

	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(loc, history))
		return err

	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// Markdown renders history as a Markdown transcript.
func Markdown(loc locale.Locale, history []model.Message) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(loc.Pick("Conversa", "Conversation"))
	b.WriteString("\n\n")

	for _, msg := range history {
		b.WriteString("**")
		b.WriteString(Speaker(loc, msg.Role))
		b.WriteString(":**\n\n")
		for _, line := range strings.Split(msg.Text, "\n") {
			b.WriteString("> ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Speaker is the display name of a role.
func Speaker(loc locale.Locale, role model.Role) string {
	if role == model.RoleUser {
		return loc.Pick("Voce", "You")
	}
	return "CampusCalm"
}
