package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message in the conversation
type Message struct {
	ID        string
	Role      Role
	Content   string
	Loading   bool // only set on the in-flight assistant placeholder
	Timestamp time.Time
}

// NewUserMessage creates a message authored by the user
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates a final assistant reply
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewPlaceholder creates the transient assistant entry shown while a
// chat request is in flight
func NewPlaceholder() Message {
	m := NewAssistantMessage(PlaceholderText)
	m.Loading = true
	return m
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsPlaceholder reports whether the message is an unresolved placeholder
func (m Message) IsPlaceholder() bool {
	return m.Role == RoleAssistant && m.Loading
}
