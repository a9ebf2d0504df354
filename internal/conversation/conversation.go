// Package conversation holds the in-memory transcript of a chat session.
package conversation

import (
	"errors"
	"fmt"
)

// Role identifies who produced a turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ErrEmptyPrompt is returned when a user turn has no text
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// Turn is one message in the conversation. It is immutable once created.
type Turn struct {
	role Role
	text string
}

// NewTurn creates a turn, rejecting unknown roles and empty user text
func NewTurn(role Role, text string) (Turn, error) {
	switch role {
	case RoleUser:
		if text == "" {
			return Turn{}, ErrEmptyPrompt
		}
	case RoleModel:
	default:
		return Turn{}, fmt.Errorf("unknown role %q", role)
	}
	return Turn{role: role, text: text}, nil
}

// Role returns the author of the turn
func (t Turn) Role() Role {
	return t.role
}

// Text returns the turn content
func (t Turn) Text() string {
	return t.text
}

// Conversation is an ordered, append-only sequence of turns.
// Insertion order is chronological order.
type Conversation struct {
	turns []Turn
}

// New creates an empty conversation
func New() *Conversation {
	return &Conversation{}
}

// Append adds a turn to the end of the conversation
func (c *Conversation) Append(role Role, text string) error {
	turn, err := NewTurn(role, text)
	if err != nil {
		return err
	}
	c.turns = append(c.turns, turn)
	return nil
}

// Len returns the number of turns
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Turns returns a copy of all turns in order
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Truncate drops every turn after the first n. It is used to roll back a
// failed exchange to the length recorded before the exchange started.
func (c *Conversation) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(c.turns) {
		return
	}
	c.turns = c.turns[:n]
}

// Clear removes all turns
func (c *Conversation) Clear() {
	c.turns = nil
}

// HasExchange reports whether at least one prompt/response pair exists
func (c *Conversation) HasExchange() bool {
	return len(c.turns) >= 2
}

// LastExchange returns the two most recent turns (prompt, response)
func (c *Conversation) LastExchange() (prompt, response Turn, ok bool) {
	if !c.HasExchange() {
		return Turn{}, Turn{}, false
	}
	n := len(c.turns)
	return c.turns[n-2], c.turns[n-1], true
}
