package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the explanation transcript.
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// DefaultSuggestions are the prompt chips shown before the assistant has
// supplied its own follow-ups.
var DefaultSuggestions = []string{
	"Why is the risk high?",
	"Treatment Plan",
	"Show Clinical Guidelines",
	"Lifestyle Advice",
}

// Transcript is the append-only message sequence for one prediction context.
// A new prediction resets it; it is never merged across contexts.
type Transcript struct {
	mu          sync.Mutex
	messages    []Message
	suggestions []string
}

// NewTranscript returns an empty conversation. The server holds a single
// process-wide transcript: the dashboard serves one operator at a time, and
// each new prediction resets the conversation for that operator.
func NewTranscript() *Transcript {
	return &Transcript{suggestions: append([]string(nil), DefaultSuggestions...)}
}

// Append adds a message and returns it with its assigned id.
func (t *Transcript) Append(role Role, text string) Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := Message{ID: uuid.NewString(), Role: role, Text: text}
	t.messages = append(t.messages, msg)
	return msg
}

// Reset discards the transcript for a new prediction context. A non-empty
// greeting becomes the opening assistant message; the prompt chips return to
// the defaults.
func (t *Transcript) Reset(greeting string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = nil
	t.suggestions = append([]string(nil), DefaultSuggestions...)
	if greeting != "" {
		t.messages = append(t.messages, Message{
			ID:   uuid.NewString(),
			Role: RoleAssistant,
			Text: greeting,
		})
	}
}

// SetSuggestions replaces the prompt chips. Empty input is ignored so a
// response without a suggestion block keeps the previous chips.
func (t *Transcript) SetSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suggestions = append([]string(nil), suggestions...)
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Message(nil), t.messages...)
}

// Suggestions returns a copy of the current prompt chips.
func (t *Transcript) Suggestions() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.suggestions...)
}
