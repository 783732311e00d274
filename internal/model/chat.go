// Package model defines the chat corpus and the records derived from it.
package model

import (
	"errors"
	"fmt"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RolePrompt   Role = "prompt"   // user-authored
	RoleResponse Role = "response" // assistant-authored
)

// Message is a single turn in a chat.
type Message struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
	Status       string    `json:"status,omitempty"`
	IsFavorite   bool      `json:"is_favorite,omitempty"`
	ResponseTime int64     `json:"response_time,omitempty"` // milliseconds, 0 when not recorded
	WordCount    int       `json:"word_count,omitempty"`
}

// Chat is an ordered conversation. Messages are chronological.
type Chat struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Messages     []Message  `json:"messages"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	Category     string     `json:"category,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	IsPinned     bool       `json:"is_pinned,omitempty"`
}

// Categories are the fixed chat categories. A chat with no category is "general".
var Categories = []string{"work", "personal", "research", "general"}

// DefaultCategory is used for chats without a known category.
const DefaultCategory = "general"

// CategoryOf returns the chat's category, folding empty or unknown values into DefaultCategory.
func (c *Chat) CategoryOf() string {
	for _, cat := range Categories {
		if c.Category == cat {
			return cat
		}
	}
	return DefaultCategory
}

// HasTag reports whether the chat carries tag.
func (c *Chat) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

var (
	ErrMissingID   = errors.New("missing id")
	ErrInvalidRole = errors.New("invalid role")
)

// Validate checks the minimal shape a chat needs before it can be processed.
func (c *Chat) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("chat: %w", ErrMissingID)
	}
	return nil
}

// Validate checks a message's identity and role.
func (m *Message) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("message: %w", ErrMissingID)
	}
	if m.Role != RolePrompt && m.Role != RoleResponse {
		return fmt.Errorf("message %s: %w %q", m.ID, ErrInvalidRole, m.Role)
	}
	return nil
}
