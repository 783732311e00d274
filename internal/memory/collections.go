package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/rcliao/chatcore/internal/model"
)

// BookmarkQuery filters an extracted bookmark collection. Zero fields match everything.
type BookmarkQuery struct {
	Text         string
	Tag          string
	Importance   model.Importance
	Type         model.BookmarkType
	AcceptedOnly bool
}

// Match reports whether b satisfies every set field of q.
func (q BookmarkQuery) Match(b model.Bookmark) bool {
	if q.Importance != "" && b.Importance != q.Importance {
		return false
	}
	if q.Type != "" && b.Type != q.Type {
		return false
	}
	if q.AcceptedOnly && !b.Accepted {
		return false
	}
	if q.Tag != "" && !containsFold(b.Tags, q.Tag) {
		return false
	}
	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Description), needle) &&
			!containsFold(b.Tags, q.Text) {
			return false
		}
	}
	return true
}

// FilterBookmarks returns the bookmarks matching q, in input order.
func FilterBookmarks(bookmarks []model.Bookmark, q BookmarkQuery) []model.Bookmark {
	var out []model.Bookmark
	for _, b := range bookmarks {
		if q.Match(b) {
			out = append(out, b)
		}
	}
	return out
}

// Accept returns a copy of bookmarks with the bookmark id marked accepted.
func Accept(bookmarks []model.Bookmark, id string) ([]model.Bookmark, bool) {
	out := make([]model.Bookmark, len(bookmarks))
	copy(out, bookmarks)
	for i := range out {
		if out[i].ID == id {
			out[i].Accepted = true
			return out, true
		}
	}
	return out, false
}

// Reject returns a copy of bookmarks without the pending suggestion id.
// Accepted bookmarks and user bookmarks cannot be rejected.
func Reject(bookmarks []model.Bookmark, id string) ([]model.Bookmark, bool) {
	out := make([]model.Bookmark, 0, len(bookmarks))
	found := false
	for _, b := range bookmarks {
		if b.ID == id && b.Type == model.BookmarkAISuggested && !b.Accepted {
			found = true
			continue
		}
		out = append(out, b)
	}
	return out, found
}

// TagCount is a tag with its frequency.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagCounts counts bookmark tags, most frequent first. Ties keep first-seen order.
func TagCounts(bookmarks []model.Bookmark) []TagCount {
	lists := make([][]string, len(bookmarks))
	for i, b := range bookmarks {
		lists[i] = b.Tags
	}
	return countTerms(lists)
}

func countTerms(lists [][]string) []TagCount {
	idx := map[string]int{}
	var out []TagCount
	for _, list := range lists {
		for _, t := range list {
			if i, ok := idx[t]; ok {
				out[i].Count++
				continue
			}
			idx[t] = len(out)
			out = append(out, TagCount{Tag: t, Count: 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// BookmarkStats summarizes a bookmark collection.
type BookmarkStats struct {
	Total        int                        `json:"total"`
	Accepted     int                        `json:"accepted"`
	Pending      int                        `json:"pending"`
	ByImportance map[model.Importance]int   `json:"by_importance"`
	ByType       map[model.BookmarkType]int `json:"by_type"`
	TopTags      []TagCount                 `json:"top_tags"`
}

// StatsOf computes BookmarkStats without re-running extraction.
func StatsOf(bookmarks []model.Bookmark) BookmarkStats {
	st := BookmarkStats{
		Total: len(bookmarks),
		ByImportance: map[model.Importance]int{
			model.ImportanceLow: 0, model.ImportanceMedium: 0, model.ImportanceHigh: 0,
		},
		ByType: map[model.BookmarkType]int{
			model.BookmarkUser: 0, model.BookmarkAISuggested: 0,
		},
		TopTags: TagCounts(bookmarks),
	}
	for _, b := range bookmarks {
		st.ByImportance[b.Importance]++
		st.ByType[b.Type]++
		if b.Accepted {
			st.Accepted++
		} else {
			st.Pending++
		}
	}
	if len(st.TopTags) > 10 {
		st.TopTags = st.TopTags[:10]
	}
	return st
}

// MergeContexts adds fresh contexts to existing ones, keeping one context
// per (chat, type, content). A fresh duplicate replaces the stored one.
func MergeContexts(existing, fresh []model.MemoryContext) []model.MemoryContext {
	key := func(c model.MemoryContext) string {
		return c.ChatID + "\x00" + string(c.Type) + "\x00" + strings.ToLower(c.Content)
	}
	out := make([]model.MemoryContext, 0, len(existing)+len(fresh))
	idx := map[string]int{}
	for _, c := range append(append([]model.MemoryContext{}, existing...), fresh...) {
		k := key(c)
		if i, ok := idx[k]; ok {
			out[i] = c
			continue
		}
		idx[k] = len(out)
		out = append(out, c)
	}
	return out
}

// PruneExpired drops contexts whose expiry is not after now.
func PruneExpired(contexts []model.MemoryContext, now time.Time) []model.MemoryContext {
	var out []model.MemoryContext
	for _, c := range contexts {
		if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterContexts returns contexts of type t (any type when empty) with a
// keyword containing keyword (any when empty).
func FilterContexts(contexts []model.MemoryContext, t model.MemoryType, keyword string) []model.MemoryContext {
	keyword = strings.ToLower(keyword)
	var out []model.MemoryContext
	for _, c := range contexts {
		if t != "" && c.Type != t {
			continue
		}
		if keyword != "" && !anyContains(c.Keywords, keyword) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ContextStats summarizes a memory context collection.
type ContextStats struct {
	Total       int                      `json:"total"`
	ByType      map[model.MemoryType]int `json:"by_type"`
	TopKeywords []TagCount               `json:"top_keywords"`
}

// StatsOfContexts counts contexts by type and their ten most common keywords.
func StatsOfContexts(contexts []model.MemoryContext) ContextStats {
	st := ContextStats{
		Total: len(contexts),
		ByType: map[model.MemoryType]int{
			model.MemoryPreference: 0, model.MemoryFact: 0, model.MemoryTopic: 0,
		},
	}
	lists := make([][]string, 0, len(contexts))
	for _, c := range contexts {
		st.ByType[c.Type]++
		lists = append(lists, c.Keywords)
	}
	st.TopKeywords = countTerms(lists)
	if len(st.TopKeywords) > 10 {
		st.TopKeywords = st.TopKeywords[:10]
	}
	return st
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func anyContains(list []string, sub string) bool {
	for _, v := range list {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}
