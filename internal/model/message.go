package model

import "encoding/json"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleBot
}

// Message is a single entry of the conversation history. Messages are
// immutable once appended.
type Message struct {
	Role Role   `json:"role" yaml:"role"`
	Text string `json:"text" yaml:"text"`
}

// ChatReply is the success payload of the chat endpoint. Emoji and
// MicroInterventions are kept raw so that a malformed optional field does
// not invalidate the whole reply.
type ChatReply struct {
	// Reply is the main answer. It must be a non-empty string.
	Reply string `json:"reply"`

	// Emoji is an optional prefix for the answer.
	Emoji json.RawMessage `json:"emoji,omitempty"`

	// MicroInterventions is an optional list of {nome, texto} objects.
	MicroInterventions json.RawMessage `json:"micro_interventions,omitempty"`
}

// MicroIntervention is a short named action suggested with a reply.
type MicroIntervention struct {
	Nome  string `json:"nome"`
	Texto string `json:"texto"`
}
