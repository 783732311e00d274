package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chatcore/internal/model"
)

func sampleBookmarks() []model.Bookmark {
	return []model.Bookmark{
		{ID: "b1", Type: model.BookmarkAISuggested, Title: "Use sort.Slice", Tags: []string{"code", "useful"}, Importance: model.ImportanceHigh},
		{ID: "b2", Type: model.BookmarkAISuggested, Title: "Deploy checklist", Description: "Steps to ship", Tags: []string{"list"}, Importance: model.ImportanceMedium, Accepted: true},
		{ID: "b3", Type: model.BookmarkUser, Title: "Favorite recipe", Tags: []string{"code"}, Importance: model.ImportanceMedium, Accepted: true},
	}
}

func TestAcceptReject(t *testing.T) {
	bs := sampleBookmarks()

	accepted, ok := Accept(bs, "b1")
	require.True(t, ok)
	assert.True(t, accepted[0].Accepted)
	assert.False(t, bs[0].Accepted, "input must not be mutated")

	_, ok = Accept(bs, "missing")
	assert.False(t, ok)

	rejected, ok := Reject(bs, "b1")
	require.True(t, ok)
	assert.Len(t, rejected, 2)
	assert.Len(t, bs, 3)

	_, ok = Reject(bs, "b2")
	assert.False(t, ok, "accepted suggestions stay")
	_, ok = Reject(bs, "b3")
	assert.False(t, ok, "user bookmarks stay")
}

func TestFilterBookmarks(t *testing.T) {
	bs := sampleBookmarks()

	assert.Len(t, FilterBookmarks(bs, BookmarkQuery{}), 3)
	assert.Len(t, FilterBookmarks(bs, BookmarkQuery{Tag: "CODE"}), 2)
	assert.Len(t, FilterBookmarks(bs, BookmarkQuery{Importance: model.ImportanceMedium}), 2)
	assert.Len(t, FilterBookmarks(bs, BookmarkQuery{Type: model.BookmarkUser}), 1)
	assert.Len(t, FilterBookmarks(bs, BookmarkQuery{AcceptedOnly: true}), 2)

	got := FilterBookmarks(bs, BookmarkQuery{Text: "ship"})
	require.Len(t, got, 1)
	assert.Equal(t, "b2", got[0].ID)
}

func TestStatsOf(t *testing.T) {
	st := StatsOf(sampleBookmarks())

	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Accepted)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, 1, st.ByImportance[model.ImportanceHigh])
	assert.Equal(t, 2, st.ByImportance[model.ImportanceMedium])
	assert.Equal(t, 0, st.ByImportance[model.ImportanceLow])
	assert.Equal(t, 2, st.ByType[model.BookmarkAISuggested])
	assert.Equal(t, []TagCount{{"code", 2}, {"useful", 1}, {"list", 1}}, st.TopTags)
}

func TestStatsOf_Empty(t *testing.T) {
	st := StatsOf(nil)
	assert.Equal(t, 0, st.Total)
	assert.Empty(t, st.TopTags)
}

func TestMergeContexts(t *testing.T) {
	old := model.MemoryContext{ID: "x", ChatID: "c1", Type: model.MemoryPreference, Content: "I prefer tea", LastUpdated: at}
	other := model.MemoryContext{ID: "y", ChatID: "c1", Type: model.MemoryFact, Content: "The answer is 42", LastUpdated: at}
	fresh := model.MemoryContext{ID: "z", ChatID: "c1", Type: model.MemoryPreference, Content: "i prefer TEA", LastUpdated: at.Add(time.Hour)}

	got := MergeContexts([]model.MemoryContext{old, other}, []model.MemoryContext{fresh})
	require.Len(t, got, 2)
	assert.Equal(t, "z", got[0].ID)
	assert.Equal(t, "y", got[1].ID)
}

func TestPruneExpired(t *testing.T) {
	past := at.Add(-time.Hour)
	future := at.Add(time.Hour)
	got := PruneExpired([]model.MemoryContext{
		{ID: "expired", ExpiresAt: &past},
		{ID: "edge", ExpiresAt: &at},
		{ID: "live", ExpiresAt: &future},
		{ID: "forever"},
	}, at)

	require.Len(t, got, 2)
	assert.Equal(t, "live", got[0].ID)
	assert.Equal(t, "forever", got[1].ID)
}

func TestFilterContextsAndStats(t *testing.T) {
	cs := []model.MemoryContext{
		{ID: "a", Type: model.MemoryPreference, Keywords: []string{"prefer", "dark", "mode"}},
		{ID: "b", Type: model.MemoryFact, Keywords: []string{"answer", "dark"}},
		{ID: "c", Type: model.MemoryTopic, Keywords: []string{"compiler"}},
	}

	assert.Len(t, FilterContexts(cs, "", "dark"), 2)
	assert.Len(t, FilterContexts(cs, model.MemoryFact, ""), 1)
	assert.Len(t, FilterContexts(cs, model.MemoryTopic, "DARK"), 0)

	st := StatsOfContexts(cs)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.ByType[model.MemoryPreference])
	assert.Equal(t, TagCount{"dark", 2}, st.TopKeywords[0])
}
