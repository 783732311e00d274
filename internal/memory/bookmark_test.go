package memory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chatcore/internal/model"
)

func TestAnalyze_OnlyResponses(t *testing.T) {
	_, ok := AnalyzeMessage(userMsg("m1", "This is important: ```code```"), "c1")
	assert.False(t, ok)
}

func TestAnalyze_BelowThreshold(t *testing.T) {
	_, ok := AnalyzeMessage(botMsg("m1", "Sure."), "c1")
	assert.False(t, ok)

	// a URL alone scores 1
	_, ok = AnalyzeMessage(botMsg("m2", "See https://go.dev"), "c1")
	assert.False(t, ok)
}

func TestAnalyze_AtThreshold(t *testing.T) {
	b, ok := AnalyzeMessage(botMsg("m1", "For example, use a map"), "c1")
	require.True(t, ok)
	assert.Equal(t, model.ImportanceLow, b.Importance)
	assert.InDelta(t, 0.2, b.Confidence, 1e-9)
	assert.Equal(t, model.BookmarkAISuggested, b.Type)
	assert.False(t, b.Accepted)
}

func TestAnalyze_CodeFenceWithImportanceKeyword(t *testing.T) {
	text := "This is important:\n```go\nfmt.Println(1)\n```"
	b, ok := AnalyzeMessage(botMsg("m1", text), "c1")

	require.True(t, ok)
	assert.Equal(t, model.ImportanceHigh, b.Importance)
	assert.InDelta(t, 0.6, b.Confidence, 1e-9)
	assert.Equal(t, []string{"important", "code"}, b.Tags)
	assert.Equal(t, "This is important:", b.Title)
	assert.Equal(t, BookmarkID("c1", "m1"), b.ID)
}

func TestAnalyze_Steps(t *testing.T) {
	b, ok := AnalyzeMessage(botMsg("m1", "Step 1: install. Step 2: run."), "c1")
	require.True(t, ok)
	assert.Equal(t, model.ImportanceMedium, b.Importance)
	assert.Equal(t, []string{"tutorial"}, b.Tags)
}

func TestScore_Breakdown(t *testing.T) {
	text := "Key decision:\n- use Postgres\n- see https://postgresql.org\n" + strings.Repeat("detail ", 80)
	an := NewAnalyzer().Score(text)

	assert.Equal(t, 6, an.Hits["high-importance"])
	assert.Equal(t, 2, an.Hits["list"])
	assert.Equal(t, 1, an.Hits["url"])
	assert.Equal(t, 1, an.Hits["long"])
	assert.Equal(t, 10, an.Score)
	assert.Equal(t, 1.0, an.Confidence)
	assert.Equal(t, model.ImportanceHigh, an.Importance)
}

func TestAnalyze_TitleAndDescription(t *testing.T) {
	first := "The important part of this answer is a very long opening sentence that keeps going"
	text := first + ". More words follow here."
	b, ok := AnalyzeMessage(botMsg("m1", text), "c1")

	require.True(t, ok)
	assert.Len(t, b.Title, 60)
	assert.True(t, strings.HasSuffix(b.Title, "..."))
	assert.Equal(t, first[:57]+"...", b.Title)
	assert.True(t, strings.HasSuffix(b.Description, "..."))
	assert.Len(t, strings.Fields(strings.TrimSuffix(b.Description, "...")), 15)
}

func TestAnalyze_FallbackTitle(t *testing.T) {
	b, ok := AnalyzeMessage(botMsg("m1", "?!"), "c1")
	require.True(t, ok)
	assert.Equal(t, "Bookmarked response", b.Title)
}

func TestAnalyzer_CustomRule(t *testing.T) {
	a := NewAnalyzer()
	a.Rules = append(a.Rules, Rule{Name: "todo", Weight: 5, Tag: "todo", Match: Contains("TODO")})

	b, ok := a.Analyze(botMsg("m1", "TODO rotate keys"), "c1")
	require.True(t, ok)
	assert.Equal(t, model.ImportanceMedium, b.Importance)
	assert.Equal(t, []string{"todo"}, b.Tags)
}

func TestSuggest(t *testing.T) {
	chat := &model.Chat{ID: "c1", Messages: []model.Message{
		userMsg("m1", "How do I sort a slice?"),
		botMsg("m2", "The best approach is `sort.Slice`."),
		botMsg("m3", "ok"),
		{ID: "m4", Role: "narrator", Text: "important `code`"},
	}}
	got := NewAnalyzer().Suggest(chat)

	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].MessageID)
}

func TestUserBookmark(t *testing.T) {
	b := UserBookmark(botMsg("m1", "Use context.Context everywhere. Always."), "c1", "", []string{"go"})
	assert.Equal(t, model.BookmarkUser, b.Type)
	assert.True(t, b.Accepted)
	assert.Equal(t, "Use context", b.Title)
	assert.NotEqual(t, BookmarkID("c1", "m1"), b.ID)
}
