package analytics

import (
	"sort"
	"time"

	"github.com/rcliao/chatcore/internal/model"
)

// UsageStats holds corpus-wide counts.
type UsageStats struct {
	TotalChats         int     `json:"total_chats"`
	TotalMessages      int     `json:"total_messages"`
	UserMessages       int     `json:"user_messages"`
	AssistantMessages  int     `json:"assistant_messages"`
	AvgMessagesPerChat float64 `json:"avg_messages_per_chat"`
	AvgWordsPerMessage float64 `json:"avg_words_per_message"`
	TotalWords         int     `json:"total_words"`
	ChatsToday         int     `json:"chats_today"`
	ChatsThisWeek      int     `json:"chats_this_week"`
	ChatsThisMonth     int     `json:"chats_this_month"`
	MessagesToday      int     `json:"messages_today"`
	MessagesThisWeek   int     `json:"messages_this_week"`
	MessagesThisMonth  int     `json:"messages_this_month"`
}

// Usage counts chats, messages and words. "This week" is the rolling seven
// days before now; "this month" is the calendar month containing now.
func Usage(chats []model.Chat, now time.Time) UsageStats {
	today := startOfDay(now)
	week := now.AddDate(0, 0, -7)
	month := startOfMonth(now)

	var st UsageStats
	st.TotalChats = len(chats)
	for _, c := range chats {
		if !c.CreatedAt.Before(today) {
			st.ChatsToday++
		}
		if !c.CreatedAt.Before(week) {
			st.ChatsThisWeek++
		}
		if !c.CreatedAt.Before(month) {
			st.ChatsThisMonth++
		}
		for _, m := range c.Messages {
			st.TotalMessages++
			if m.Role == model.RolePrompt {
				st.UserMessages++
			} else {
				st.AssistantMessages++
			}
			st.TotalWords += wordsOf(m)
			if !m.Timestamp.Before(today) {
				st.MessagesToday++
			}
			if !m.Timestamp.Before(week) {
				st.MessagesThisWeek++
			}
			if !m.Timestamp.Before(month) {
				st.MessagesThisMonth++
			}
		}
	}
	st.AvgMessagesPerChat = ratio(float64(st.TotalMessages), float64(st.TotalChats))
	st.AvgWordsPerMessage = ratio(float64(st.TotalWords), float64(st.TotalMessages))
	return st
}

// CategoryStats describes one fixed category.
type CategoryStats struct {
	Category        string  `json:"category"`
	Count           int     `json:"count"`
	Percentage      float64 `json:"percentage"`
	AverageMessages float64 `json:"average_messages"`
	TotalWords      int     `json:"total_words"`
}

// Categories reports every fixed category, in model.Categories order.
// Chats without a known category count as general.
func Categories(chats []model.Chat) []CategoryStats {
	out := make([]CategoryStats, len(model.Categories))
	idx := map[string]int{}
	for i, cat := range model.Categories {
		out[i].Category = cat
		idx[cat] = i
	}
	msgs := make([]int, len(out))
	for i := range chats {
		c := &chats[i]
		j := idx[c.CategoryOf()]
		out[j].Count++
		msgs[j] += len(c.Messages)
		for _, m := range c.Messages {
			out[j].TotalWords += wordsOf(m)
		}
	}
	for j := range out {
		out[j].Percentage = ratio(float64(out[j].Count), float64(len(chats))) * 100
		out[j].AverageMessages = ratio(float64(msgs[j]), float64(out[j].Count))
	}
	return out
}

// TagStats is a tag's frequency.
type TagStats struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
	// Percentage is relative to chats carrying at least one tag.
	Percentage float64 `json:"percentage"`
}

const maxTags = 20

// Tags returns the 20 most used tags. Equal counts keep first-seen order.
func Tags(chats []model.Chat) []TagStats {
	idx := map[string]int{}
	out := []TagStats{}
	tagged := 0
	for _, c := range chats {
		if len(c.Tags) > 0 {
			tagged++
		}
		for _, t := range c.Tags {
			if i, ok := idx[t]; ok {
				out[i].Count++
				continue
			}
			idx[t] = len(out)
			out = append(out, TagStats{Tag: t, Count: 1})
		}
	}
	for i := range out {
		out[i].Percentage = ratio(float64(out[i].Count), float64(tagged)) * 100
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > maxTags {
		out = out[:maxTags]
	}
	return out
}
