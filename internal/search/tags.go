package search

import (
	"sort"

	"github.com/rcliao/chatcore/internal/logger"
	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/textutil"
)

const (
	maxSuggestedTags = 20
	minTagFrequency  = 2
)

var tagWordOptions = textutil.KeywordOptions{MinLen: 3, MaxLen: 20, SkipNumeric: true}

// SuggestedTags counts existing chat tags and qualifying words across all
// message text, and returns the 20 most frequent terms seen at least twice.
// Equal counts keep first-seen order.
func SuggestedTags(chats []model.Chat) []string {
	counts := map[string]int{}
	var order []string
	add := func(term string) {
		if _, ok := counts[term]; !ok {
			order = append(order, term)
		}
		counts[term]++
	}

	for i := range chats {
		chat := &chats[i]
		logger.Guard("suggested_tags", func() {
			for _, tag := range chat.Tags {
				add(tag)
			}
			for _, m := range chat.Messages {
				for _, w := range textutil.Words(m.Text) {
					if tagWordOptions.Keep(w) {
						add(w)
					}
				}
			}
		}, "chat_id", chat.ID)
	}

	var out []string
	for _, term := range order {
		if counts[term] >= minTagFrequency {
			out = append(out, term)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return counts[out[i]] > counts[out[j]]
	})
	if len(out) > maxSuggestedTags {
		out = out[:maxSuggestedTags]
	}
	return out
}
