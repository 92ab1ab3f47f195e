// Package conversation holds the transcript of one follow-up session.
//
// A Conversation is not safe for concurrent use. Callers that share one
// across goroutines must serialize Exchange themselves; the session
// service in this module does so per session id.
package conversation

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Conversation struct {
	originalContent string
	turns           []Turn
}

func (c *Conversation) OriginalContent() string {
	return c.originalContent
}

// Turns returns a copy of the transcript in chronological order.
func (c *Conversation) Turns() []Turn {
	cpy := make([]Turn, len(c.turns))
	copy(cpy, c.turns)
	return cpy
}

func (c *Conversation) Len() int {
	return len(c.turns)
}

// Exchange records a completed question and answer as two turns.
func (c *Conversation) Exchange(question string, answer string) []Turn {
	turns := []Turn{
		{Role: RoleUser, Content: question},
		{Role: RoleAssistant, Content: answer},
	}
	c.turns = append(c.turns, turns...)
	return turns
}

// Transcript renders the original content and prior turns as prompt context.
func (c *Conversation) Transcript() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Original content: %s\n\n", c.originalContent))

	if len(c.turns) > 0 {
		sb.WriteString("Previous conversation:\n")
		for _, turn := range c.turns {
			sb.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// New starts a conversation about originalContent, optionally seeded with
// a transcript supplied by the caller.
func New(originalContent string, history ...Turn) (*Conversation, error) {
	for i, turn := range history {
		if !turn.Role.Valid() {
			return nil, fmt.Errorf("turn %d: invalid role %q", i, turn.Role)
		}
	}

	turns := make([]Turn, len(history))
	copy(turns, history)

	return &Conversation{
		originalContent: originalContent,
		turns:           turns,
	}, nil
}
