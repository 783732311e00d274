package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/textutil"
)

const (
	maxTopics            = 15
	maxFavoriteKeywords  = 10
	favoriteSeriesLength = 30
)

var topicOptions = textutil.KeywordOptions{MinLen: 3}

// Topic is a frequent keyword and the chats that mention it.
type Topic struct {
	Keyword       string   `json:"keyword"`
	Frequency     int      `json:"frequency"`
	ChatIDs       []string `json:"chat_ids"`
	AverageLength float64  `json:"average_length"`
}

// Topics returns the 15 most frequent keywords across all message text.
// Frequency counts every occurrence; each chat is listed, and counted toward
// the average conversation length, once per keyword.
func Topics(chats []model.Chat) []Topic {
	idx := map[string]int{}
	var topics []Topic
	var lengths []int

	for _, c := range chats {
		var b strings.Builder
		for _, m := range c.Messages {
			b.WriteString(m.Text)
			b.WriteByte('\n')
		}
		seen := map[string]bool{}
		for _, w := range textutil.Words(b.String()) {
			if !topicOptions.Keep(w) {
				continue
			}
			i, ok := idx[w]
			if !ok {
				i = len(topics)
				idx[w] = i
				topics = append(topics, Topic{Keyword: w})
				lengths = append(lengths, 0)
			}
			topics[i].Frequency++
			if !seen[w] {
				seen[w] = true
				topics[i].ChatIDs = append(topics[i].ChatIDs, c.ID)
				lengths[i] += len(c.Messages)
			}
		}
	}
	for i := range topics {
		topics[i].AverageLength = ratio(float64(lengths[i]), float64(len(topics[i].ChatIDs)))
	}

	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Frequency > topics[j].Frequency })
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}
	if topics == nil {
		topics = []Topic{}
	}
	return topics
}

// KeywordCount is a keyword with its occurrence count.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// DayCount is a per-day count.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// FavoriteAnalysis describes favorited messages.
type FavoriteAnalysis struct {
	Count       int            `json:"count"`
	TopKeywords []KeywordCount `json:"top_keywords"`
	Daily       []DayCount     `json:"daily"`
	ByCategory  map[string]int `json:"by_category"`
}

// Favorites counts favorited messages, their top keywords, a 30-day series
// by message date, and a per-category breakdown.
func Favorites(chats []model.Chat, now time.Time) FavoriteAnalysis {
	loc := now.Location()
	fa := FavoriteAnalysis{TopKeywords: []KeywordCount{}, ByCategory: map[string]int{}}
	for _, cat := range model.Categories {
		fa.ByCategory[cat] = 0
	}
	days := lastDays(now, favoriteSeriesLength)
	dayIdx := make(map[string]int, len(days))
	fa.Daily = make([]DayCount, len(days))
	for i, d := range days {
		fa.Daily[i].Date = d
		dayIdx[d] = i
	}

	kwIdx := map[string]int{}
	for i := range chats {
		c := &chats[i]
		for _, m := range c.Messages {
			if !m.IsFavorite {
				continue
			}
			fa.Count++
			fa.ByCategory[c.CategoryOf()]++
			if j, ok := dayIdx[dayKey(m.Timestamp, loc)]; ok {
				fa.Daily[j].Count++
			}
			for _, w := range textutil.Words(m.Text) {
				if !topicOptions.Keep(w) {
					continue
				}
				if j, ok := kwIdx[w]; ok {
					fa.TopKeywords[j].Count++
					continue
				}
				kwIdx[w] = len(fa.TopKeywords)
				fa.TopKeywords = append(fa.TopKeywords, KeywordCount{Keyword: w, Count: 1})
			}
		}
	}
	sort.SliceStable(fa.TopKeywords, func(i, j int) bool { return fa.TopKeywords[i].Count > fa.TopKeywords[j].Count })
	if len(fa.TopKeywords) > maxFavoriteKeywords {
		fa.TopKeywords = fa.TopKeywords[:maxFavoriteKeywords]
	}
	return fa
}
