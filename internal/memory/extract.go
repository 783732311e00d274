// Package memory infers memory contexts and bookmark suggestions from
// message text using weighted pattern rules, and provides the helpers that
// filter and summarize what was extracted.
package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/rcliao/chatcore/internal/logger"
	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/textutil"
)

// IDs of derived records are name-based UUIDs so extraction stays a pure
// function of its input.
var (
	memoryNamespace   = uuid.NewSHA1(uuid.NameSpaceURL, []byte("chatcore:memory"))
	bookmarkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("chatcore:bookmark"))
)

const (
	maxContextKeywords = 10
	relevanceThreshold = 0.3
	maxRelevant        = 5
)

var contextKeywordOptions = textutil.KeywordOptions{MinLen: 3, Limit: maxContextKeywords}

// Extractor applies memory rules to messages.
type Extractor struct {
	Rules []MemoryRule
}

// NewExtractor returns an extractor with DefaultMemoryRules.
func NewExtractor() *Extractor {
	return &Extractor{Rules: DefaultMemoryRules}
}

// Extract returns one memory context per rule match in msg. A span matched by
// several rules of the same type is reported once.
func (e *Extractor) Extract(msg model.Message, chatID string) []model.MemoryContext {
	var out []model.MemoryContext
	seen := map[string]bool{}
	for _, rule := range e.Rules {
		if rule.UserOnly && msg.Role != model.RolePrompt {
			continue
		}
		for _, span := range rule.Pattern.FindAllString(msg.Text, -1) {
			content := strings.TrimSpace(span)
			key := string(rule.Type) + "\x00" + content
			if content == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, model.MemoryContext{
				ID:             contextID(chatID, msg.ID, rule.Type, content),
				ChatID:         chatID,
				Type:           rule.Type,
				Content:        content,
				Keywords:       textutil.Keywords(content, contextKeywordOptions),
				RelevanceScore: rule.Score,
				LastUpdated:    msg.Timestamp,
			})
		}
	}
	return out
}

// ExtractChat runs Extract over every message of chat, skipping malformed messages.
func (e *Extractor) ExtractChat(chat *model.Chat) []model.MemoryContext {
	var out []model.MemoryContext
	for _, msg := range chat.Messages {
		if err := msg.Validate(); err != nil {
			logger.L().Warnw("skipping message", "op", "extract_memory", "chat_id", chat.ID, "err", err)
			continue
		}
		logger.Guard("extract_memory", func() {
			out = append(out, e.Extract(msg, chat.ID)...)
		}, "chat_id", chat.ID, "message_id", msg.ID)
	}
	return out
}

// ExtractFromMessage applies DefaultMemoryRules to msg.
func ExtractFromMessage(msg model.Message, chatID string) []model.MemoryContext {
	return NewExtractor().Extract(msg, chatID)
}

// FindRelevant returns up to five stored contexts whose keywords overlap
// the keywords of text by at least 30%, ordered by descending stored
// relevance score. A context keyword overlaps when it contains, or is
// contained in, any keyword of text.
func FindRelevant(text string, contexts []model.MemoryContext) []model.MemoryContext {
	words := textutil.Keywords(text, textutil.KeywordOptions{MinLen: 3})
	if len(words) == 0 {
		return nil
	}

	var out []model.MemoryContext
	for _, c := range contexts {
		if Overlap(c.Keywords, words) >= relevanceThreshold {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	if len(out) > maxRelevant {
		out = out[:maxRelevant]
	}
	return out
}

// Overlap is the fraction of keys related to at least one of words.
func Overlap(keys, words []string) float64 {
	if len(keys) == 0 {
		return 0
	}
	n := 0
	for _, k := range keys {
		for _, w := range words {
			if strings.Contains(w, k) || strings.Contains(k, w) {
				n++
				break
			}
		}
	}
	return float64(n) / float64(len(keys))
}

func contextID(chatID, msgID string, t model.MemoryType, content string) string {
	return uuid.NewSHA1(memoryNamespace, []byte(fmt.Sprintf("%s/%s/%s/%s", chatID, msgID, t, content))).String()
}
