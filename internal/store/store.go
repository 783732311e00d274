// Package store persists the chat corpus and the records derived from it in SQLite.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/chatcore/internal/model"
)

// ErrNotFound is returned when a chat or bookmark does not exist.
var ErrNotFound = errors.New("not found")

// ListParams holds parameters for listing chats.
type ListParams struct {
	Category string
	Tag      string
	Limit    int
}

// BookmarkQuery holds parameters for listing bookmarks.
type BookmarkQuery struct {
	ChatID       string
	Type         model.BookmarkType
	AcceptedOnly bool
}

// Store defines the corpus storage interface.
type Store interface {
	// ImportChats upserts chats and replaces their messages. Returns the number imported.
	ImportChats(ctx context.Context, chats []model.Chat) (int, error)

	// Corpus returns every chat with its messages in order.
	Corpus(ctx context.Context) ([]model.Chat, error)

	// GetChat retrieves a chat by ID.
	GetChat(ctx context.Context, id string) (*model.Chat, error)

	// ListChats lists chats without their messages, newest first.
	ListChats(ctx context.Context, p ListParams) ([]model.Chat, error)

	// AppendMessage adds a message to the end of a chat.
	AppendMessage(ctx context.Context, chatID string, m model.Message) (*model.Message, error)

	SaveBookmarks(ctx context.Context, bookmarks []model.Bookmark) error
	ListBookmarks(ctx context.Context, q BookmarkQuery) ([]model.Bookmark, error)
	AcceptBookmark(ctx context.Context, id string) error
	// RejectBookmark deletes a pending suggestion.
	RejectBookmark(ctx context.Context, id string) error

	SaveMemories(ctx context.Context, contexts []model.MemoryContext) error
	// ReplaceMemories deletes the stored contexts of chatID, then saves contexts.
	ReplaceMemories(ctx context.Context, chatID string, contexts []model.MemoryContext) error
	// ListMemories returns unexpired contexts, for one chat or all when chatID is empty.
	ListMemories(ctx context.Context, chatID string, now time.Time) ([]model.MemoryContext, error)

	// Close closes the store.
	Close() error
}
