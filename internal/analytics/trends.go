package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/rcliao/chatcore/internal/model"
)

const (
	trendDays     = 30
	responseTrend = 7
)

// DayTrend is activity on one calendar day.
type DayTrend struct {
	Date              string         `json:"date"`
	ChatsCreated      int            `json:"chats_created"`
	MessagesSent      int            `json:"messages_sent"`
	AverageChatLength float64        `json:"average_chat_length"`
	Categories        map[string]int `json:"categories"`
}

// Trends reports the 30 calendar days ending on now's date, oldest first.
// Chats count on their creation day; messages on their own timestamp.
func Trends(chats []model.Chat, now time.Time) []DayTrend {
	loc := now.Location()
	days := lastDays(now, trendDays)
	out := make([]DayTrend, len(days))
	idx := make(map[string]int, len(days))
	for i, d := range days {
		out[i] = DayTrend{Date: d, Categories: map[string]int{}}
		idx[d] = i
	}

	lengths := make([]int, len(days))
	for _, c := range chats {
		if i, ok := idx[dayKey(c.CreatedAt, loc)]; ok {
			out[i].ChatsCreated++
			out[i].Categories[c.CategoryOf()]++
			lengths[i] += len(c.Messages)
		}
		for _, m := range c.Messages {
			if i, ok := idx[dayKey(m.Timestamp, loc)]; ok {
				out[i].MessagesSent++
			}
		}
	}
	for i := range out {
		out[i].AverageChatLength = ratio(float64(lengths[i]), float64(out[i].ChatsCreated))
	}
	return out
}

// DayValue is a per-day average.
type DayValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ResponseTimeMetrics summarizes recorded assistant response times in milliseconds.
type ResponseTimeMetrics struct {
	Samples int         `json:"samples"`
	Average float64     `json:"average"`
	Fastest int64       `json:"fastest"`
	Slowest int64       `json:"slowest"`
	ByHour  [24]float64 `json:"by_hour"`
	ByDay   []DayValue  `json:"by_day"`
	Trend   []DayValue  `json:"trend"` // last 7 days, 0 where nothing was recorded
}

type accum struct {
	sum   float64
	count int
}

func (a accum) mean() float64 { return ratio(a.sum, float64(a.count)) }

// ResponseTimes averages response times of assistant messages that carry one.
func ResponseTimes(chats []model.Chat, now time.Time) ResponseTimeMetrics {
	loc := now.Location()
	rt := ResponseTimeMetrics{ByDay: []DayValue{}}
	var total accum
	var hours [24]accum
	days := map[string]*accum{}
	fastest := int64(math.MaxInt64)

	for _, c := range chats {
		for _, m := range c.Messages {
			if m.Role != model.RoleResponse || m.ResponseTime <= 0 {
				continue
			}
			v := float64(m.ResponseTime)
			total.sum += v
			total.count++
			if m.ResponseTime < fastest {
				fastest = m.ResponseTime
			}
			if m.ResponseTime > rt.Slowest {
				rt.Slowest = m.ResponseTime
			}
			h := m.Timestamp.In(loc).Hour()
			hours[h].sum += v
			hours[h].count++
			k := dayKey(m.Timestamp, loc)
			if days[k] == nil {
				days[k] = &accum{}
			}
			days[k].sum += v
			days[k].count++
		}
	}

	rt.Samples = total.count
	rt.Average = total.mean()
	if total.count > 0 {
		rt.Fastest = fastest
	}
	for h := range hours {
		rt.ByHour[h] = hours[h].mean()
	}
	for k, a := range days {
		rt.ByDay = append(rt.ByDay, DayValue{Date: k, Value: a.mean()})
	}
	sort.Slice(rt.ByDay, func(i, j int) bool { return rt.ByDay[i].Date < rt.ByDay[j].Date })
	for _, d := range lastDays(now, responseTrend) {
		v := DayValue{Date: d}
		if a := days[d]; a != nil {
			v.Value = a.mean()
		}
		rt.Trend = append(rt.Trend, v)
	}
	return rt
}
