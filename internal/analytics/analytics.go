// Package analytics aggregates usage statistics over a chat corpus. Every
// computation is anchored to a reference time supplied by the caller, so a
// snapshot is reproducible for a fixed corpus and instant.
package analytics

import (
	"fmt"
	"time"

	"github.com/rcliao/chatcore/internal/logger"
	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/textutil"
)

// TimeRange restricts which chats a snapshot covers.
type TimeRange string

const (
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeAll   TimeRange = "all"
)

// ParseRange validates a range name.
func ParseRange(s string) (TimeRange, error) {
	switch r := TimeRange(s); r {
	case RangeToday, RangeWeek, RangeMonth, RangeAll:
		return r, nil
	case "":
		return RangeAll, nil
	}
	return "", fmt.Errorf("invalid range %q (valid: today, week, month, all)", s)
}

const dateLayout = "2006-01-02"

// Snapshot is the full analytics result.
type Snapshot struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	Range         TimeRange           `json:"range"`
	Usage         UsageStats          `json:"usage"`
	Categories    []CategoryStats     `json:"categories"`
	Tags          []TagStats          `json:"tags"`
	Trends        []DayTrend          `json:"trends"`
	ResponseTimes ResponseTimeMetrics `json:"response_times"`
	Topics        []Topic             `json:"topics"`
	Favorites     FavoriteAnalysis    `json:"favorites"`
}

// Aggregate computes a snapshot of chats restricted to r. Trends always
// cover the unfiltered corpus.
func Aggregate(chats []model.Chat, r TimeRange, now time.Time) Snapshot {
	all := Sanitize(chats)
	scoped := FilterRange(all, r, now)
	return Snapshot{
		GeneratedAt:   now,
		Range:         r,
		Usage:         Usage(scoped, now),
		Categories:    Categories(scoped),
		Tags:          Tags(scoped),
		Trends:        Trends(all, now),
		ResponseTimes: ResponseTimes(scoped, now),
		Topics:        Topics(scoped),
		Favorites:     Favorites(scoped, now),
	}
}

// Sanitize returns a copy of chats without invalid chats or messages.
func Sanitize(chats []model.Chat) []model.Chat {
	out := make([]model.Chat, 0, len(chats))
	for i := range chats {
		c := chats[i]
		if err := c.Validate(); err != nil {
			logger.L().Warnw("skipping chat", "op", "analytics", "err", err)
			continue
		}
		logger.Guard("analytics", func() {
			msgs := make([]model.Message, 0, len(c.Messages))
			for _, m := range c.Messages {
				if err := m.Validate(); err != nil {
					logger.L().Warnw("skipping message", "op", "analytics", "chat_id", c.ID, "err", err)
					continue
				}
				msgs = append(msgs, m)
			}
			c.Messages = msgs
			out = append(out, c)
		}, "chat_id", c.ID)
	}
	return out
}

// FilterRange keeps chats created within r of now.
func FilterRange(chats []model.Chat, r TimeRange, now time.Time) []model.Chat {
	var since time.Time
	switch r {
	case RangeToday:
		since = startOfDay(now)
	case RangeWeek:
		since = now.AddDate(0, 0, -7)
	case RangeMonth:
		since = now.AddDate(0, -1, 0)
	default:
		return chats
	}
	var out []model.Chat
	for _, c := range chats {
		if !c.CreatedAt.Before(since) {
			out = append(out, c)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// dayKey formats t as a calendar date in loc.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// lastDays returns the date keys of the n days ending on now's date, oldest first.
func lastDays(now time.Time, n int) []string {
	today := startOfDay(now)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = today.AddDate(0, 0, i-n+1).Format(dateLayout)
	}
	return out
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func wordsOf(m model.Message) int {
	if m.WordCount > 0 {
		return m.WordCount
	}
	return textutil.CountWords(m.Text)
}
