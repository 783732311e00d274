package model

import "time"

// MemoryType classifies an extracted memory context.
type MemoryType string

const (
	MemoryPreference MemoryType = "preference"
	MemoryFact       MemoryType = "fact"
	MemoryTopic      MemoryType = "conversation_topic"
)

// MemoryContext is a fact or preference inferred from message text.
type MemoryContext struct {
	ID             string     `json:"id"`
	ChatID         string     `json:"chat_id"`
	Type           MemoryType `json:"type"`
	Content        string     `json:"content"`
	Keywords       []string   `json:"keywords"`
	RelevanceScore float64    `json:"relevance_score"`
	LastUpdated    time.Time  `json:"last_updated"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// BookmarkType distinguishes user-created bookmarks from suggestions.
type BookmarkType string

const (
	BookmarkUser        BookmarkType = "user"
	BookmarkAISuggested BookmarkType = "ai_suggested"
)

// Importance is a bookmark's tier.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// Bookmark marks a message worth returning to.
type Bookmark struct {
	ID          string       `json:"id"`
	MessageID   string       `json:"message_id"`
	ChatID      string       `json:"chat_id"`
	Type        BookmarkType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Importance  Importance   `json:"importance"`
	Confidence  float64      `json:"confidence"`
	Accepted    bool         `json:"accepted"`
}

// ResultKind is the granularity of a search hit.
type ResultKind string

const (
	KindChat    ResultKind = "chat"
	KindMessage ResultKind = "message"
)

// SearchResult is a ranked search hit. It is never cached between queries.
type SearchResult struct {
	Kind           ResultKind `json:"kind"`
	Chat           *Chat      `json:"chat"`
	Message        *Message   `json:"message,omitempty"`
	RelevanceScore float64    `json:"relevance_score"`
	MatchedSnippet string     `json:"matched_snippet,omitempty"`
}
