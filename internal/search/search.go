// Package search ranks chats and messages against a query and a set of
// conjunctive filters.
package search

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rcliao/chatcore/internal/logger"
	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/textutil"
)

// Filters holds the search parameters. Every non-zero field must be
// satisfied for a chat or message to appear.
type Filters struct {
	Query         string
	Category      string
	Tags          []string
	From          *time.Time // inclusive
	To            *time.Time // inclusive
	FavoritesOnly bool
	MessageType   model.Role // empty matches both roles
}

const snippetRadius = 50

// Search returns results ordered by descending relevance, chat-kind before
// message-kind on equal scores, and input order otherwise. Without a query,
// every chat passing the filters is returned as a chat-kind result with
// score 1.
func Search(chats []model.Chat, f Filters) []model.SearchResult {
	query := strings.TrimSpace(f.Query)
	var results []model.SearchResult

	for i := range chats {
		chat := &chats[i]
		if err := chat.Validate(); err != nil {
			logger.L().Warnw("skipping chat", "op", "search", "err", err)
			continue
		}
		logger.Guard("search", func() {
			results = append(results, searchChat(chat, f, query)...)
		}, "chat_id", chat.ID)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		return a.Kind == model.KindChat && b.Kind == model.KindMessage
	})
	return results
}

func searchChat(chat *model.Chat, f Filters, query string) []model.SearchResult {
	if !chatMatches(chat, f) {
		return nil
	}

	var candidates []*model.Message
	for i := range chat.Messages {
		m := &chat.Messages[i]
		if m.Validate() != nil {
			logger.L().Warnw("skipping message", "op", "search", "chat_id", chat.ID, "message_id", m.ID)
			continue
		}
		if messageMatches(m, f) {
			candidates = append(candidates, m)
		}
	}
	messageFiltered := f.FavoritesOnly || f.MessageType != ""
	if messageFiltered && len(candidates) == 0 {
		return nil
	}

	if query == "" {
		if !inRange(chat.CreatedAt, f) {
			return nil
		}
		r := model.SearchResult{Kind: model.KindChat, Chat: chat, RelevanceScore: 1}
		if messageFiltered {
			r.Message = candidates[0]
		}
		return []model.SearchResult{r}
	}

	var out []model.SearchResult
	if inRange(chat.CreatedAt, f) {
		if m, ok := Score(chat.Title, query); ok {
			out = append(out, model.SearchResult{
				Kind:           model.KindChat,
				Chat:           chat,
				RelevanceScore: m.Score,
				MatchedSnippet: chat.Title,
			})
		}
	}
	for _, msg := range candidates {
		m, ok := Score(msg.Text, query)
		if !ok {
			continue
		}
		out = append(out, model.SearchResult{
			Kind:           model.KindMessage,
			Chat:           chat,
			Message:        msg,
			RelevanceScore: m.Score,
			MatchedSnippet: snippet(msg.Text, query, m),
		})
	}
	return out
}

func chatMatches(chat *model.Chat, f Filters) bool {
	if f.Category != "" && chat.CategoryOf() != f.Category {
		return false
	}
	for _, tag := range f.Tags {
		if !chat.HasTag(tag) {
			return false
		}
	}
	return true
}

func messageMatches(m *model.Message, f Filters) bool {
	if f.FavoritesOnly && !m.IsFavorite {
		return false
	}
	if f.MessageType != "" && m.Role != f.MessageType {
		return false
	}
	return inRange(m.Timestamp, f)
}

func inRange(t time.Time, f Filters) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}

func snippet(text, query string, m Match) string {
	if !m.Exact {
		return textutil.Truncate(text, 2*snippetRadius)
	}
	start := byteOffset(text, m.Index)
	end := start + byteOffset(text[start:], utf8.RuneCountInString(strings.TrimSpace(query)))
	return textutil.Snippet(text, start, end-start, snippetRadius)
}
