package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/chatcore/internal/model"
)

var at = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func userMsg(id, text string) model.Message {
	return model.Message{ID: id, Role: model.RolePrompt, Text: text, Timestamp: at}
}

func botMsg(id, text string) model.Message {
	return model.Message{ID: id, Role: model.RoleResponse, Text: text, Timestamp: at}
}

func TestExtract_Preference(t *testing.T) {
	got := ExtractFromMessage(userMsg("m1", "I prefer dark mode"), "c1")

	require.Len(t, got, 1)
	c := got[0]
	assert.Equal(t, model.MemoryPreference, c.Type)
	assert.Equal(t, "I prefer dark mode", c.Content)
	assert.Equal(t, []string{"prefer", "dark", "mode"}, c.Keywords)
	assert.Equal(t, 0.8, c.RelevanceScore)
	assert.Equal(t, "c1", c.ChatID)
	assert.Equal(t, at, c.LastUpdated)
	assert.NotEmpty(t, c.ID)
}

func TestExtract_AcknowledgementYieldsNothing(t *testing.T) {
	assert.Empty(t, ExtractFromMessage(botMsg("m2", "Noted, I'll remember that."), "c1"))
}

func TestExtract_Facts(t *testing.T) {
	got := ExtractFromMessage(botMsg("m1", "The solution is to restart the service. Remember: deploys happen on Fridays"), "c1")

	require.Len(t, got, 2)
	assert.Equal(t, model.MemoryFact, got[0].Type)
	assert.Equal(t, "The solution is to restart the service", got[0].Content)
	assert.Equal(t, []string{"solution", "restart", "service"}, got[0].Keywords)
	assert.Equal(t, 0.7, got[0].RelevanceScore)
	assert.Equal(t, "Remember: deploys happen on Fridays", got[1].Content)
}

func TestExtract_TopicOnlyFromUser(t *testing.T) {
	text := "I'm working on a Go compiler"

	got := ExtractFromMessage(userMsg("m1", text), "c1")
	require.Len(t, got, 1)
	assert.Equal(t, model.MemoryTopic, got[0].Type)
	assert.Equal(t, 0.6, got[0].RelevanceScore)

	assert.Empty(t, ExtractFromMessage(botMsg("m2", text), "c1"))
}

func TestExtract_MultipleMatches(t *testing.T) {
	got := ExtractFromMessage(userMsg("m1", "I like tea. I hate coffee."), "c1")
	require.Len(t, got, 2)
	assert.Equal(t, "I like tea", got[0].Content)
	assert.Equal(t, "I hate coffee", got[1].Content)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestExtract_KeywordLimit(t *testing.T) {
	text := "I love alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
	got := ExtractFromMessage(userMsg("m1", text), "c1")
	require.Len(t, got, 1)
	assert.Len(t, got[0].Keywords, 10)
}

func TestExtract_Deterministic(t *testing.T) {
	m := userMsg("m1", "I prefer tabs over spaces")
	assert.Equal(t, ExtractFromMessage(m, "c1"), ExtractFromMessage(m, "c1"))
}

func TestExtractChat_SkipsInvalid(t *testing.T) {
	chat := &model.Chat{ID: "c1", Messages: []model.Message{
		userMsg("m1", "I prefer dark mode"),
		{ID: "", Role: model.RolePrompt, Text: "I prefer light mode"},
		userMsg("m3", "My favorite editor is vim"),
	}}
	got := NewExtractor().ExtractChat(chat)
	require.Len(t, got, 2)
	assert.Equal(t, "My favorite editor is vim", got[1].Content)
}

func TestFindRelevant(t *testing.T) {
	stored := []model.MemoryContext{
		{ID: "topic", Type: model.MemoryTopic, Keywords: []string{"working", "compiler"}, RelevanceScore: 0.6},
		{ID: "fact", Type: model.MemoryFact, Keywords: []string{"solution", "restart", "service"}, RelevanceScore: 0.7},
		{ID: "pref", Type: model.MemoryPreference, Keywords: []string{"prefer", "dark", "mode"}, RelevanceScore: 0.8},
	}

	got := FindRelevant("Should the editor use dark mode?", stored)
	require.Len(t, got, 1)
	assert.Equal(t, "pref", got[0].ID)

	got = FindRelevant("the compile step fails, restart the service?", stored)
	require.Len(t, got, 2)
	assert.Equal(t, "fact", got[0].ID)
	assert.Equal(t, "topic", got[1].ID)
}

func TestFindRelevant_TopFiveByScore(t *testing.T) {
	var stored []model.MemoryContext
	for i := 0; i < 7; i++ {
		stored = append(stored, model.MemoryContext{
			ID:             fmt.Sprintf("c%d", i),
			Keywords:       []string{"golang"},
			RelevanceScore: float64(i) / 10,
		})
	}
	got := FindRelevant("golang question", stored)
	require.Len(t, got, 5)
	assert.Equal(t, "c6", got[0].ID)
	assert.Equal(t, "c2", got[4].ID)
}

func TestFindRelevant_Empty(t *testing.T) {
	assert.Empty(t, FindRelevant("", []model.MemoryContext{{Keywords: []string{"x"}}}))
	assert.Empty(t, FindRelevant("anything", nil))
}

func TestOverlap(t *testing.T) {
	assert.Equal(t, 0.0, Overlap(nil, []string{"a"}))
	assert.InDelta(t, 0.5, Overlap([]string{"compile", "linker"}, []string{"compiler"}), 1e-9)
}
