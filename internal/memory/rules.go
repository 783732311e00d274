package memory

import (
	"regexp"
	"strings"

	"github.com/rcliao/chatcore/internal/model"
)

// MemoryRule turns every match of Pattern into a memory context of Type
// carrying a fixed Score.
type MemoryRule struct {
	Name     string
	Pattern  *regexp.Regexp
	Type     model.MemoryType
	Score    float64
	UserOnly bool // only applied to prompt (user) messages
}

// Rule adds Weight to a bookmark score when Match reports true.
type Rule struct {
	Name   string
	Weight int
	Tag    string
	Match  func(text string) bool
}

// KeywordRule adds Weight for every word of the text found in Words.
type KeywordRule struct {
	Name   string
	Weight int
	Tag    string
	Words  map[string]bool
}

// Count returns how many of words are in the rule's set.
func (k KeywordRule) Count(words []string) int {
	n := 0
	for _, w := range words {
		if k.Words[w] {
			n++
		}
	}
	return n
}

// Matches wraps a regular expression as a Rule matcher.
func Matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

// Contains matches when text contains substr.
func Contains(substr string) func(string) bool {
	return func(text string) bool { return strings.Contains(text, substr) }
}

// LongerThan matches text with more than n bytes.
func LongerThan(n int) func(string) bool {
	return func(text string) bool { return len(text) > n }
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

const (
	preferenceScore = 0.8
	factScore       = 0.7
	topicScore      = 0.6
)

// clause captures the rest of a sentence.
const clause = `[^.!?\n]+`

// DefaultMemoryRules are the preference, fact and context patterns.
var DefaultMemoryRules = []MemoryRule{
	{Name: "preference", Type: model.MemoryPreference, Score: preferenceScore,
		Pattern: regexp.MustCompile(`(?i)\bI\s+(?:really\s+)?(?:prefer|like|love|enjoy|dislike|hate)\s+` + clause)},
	{Name: "aversion", Type: model.MemoryPreference, Score: preferenceScore,
		Pattern: regexp.MustCompile(`(?i)\bI\s+(?:don't|do not)\s+(?:like|want|enjoy)\s+` + clause)},
	{Name: "favorite", Type: model.MemoryPreference, Score: preferenceScore,
		Pattern: regexp.MustCompile(`(?i)\bmy\s+(?:favorite|favourite|preferred)\s+` + clause)},
	{Name: "answer", Type: model.MemoryFact, Score: factScore,
		Pattern: regexp.MustCompile(`(?i)\bthe\s+(?:answer|solution|fix|result)\s+is\s+` + clause)},
	{Name: "remember", Type: model.MemoryFact, Score: factScore,
		Pattern: regexp.MustCompile(`(?i)\bremember(?:\s+that)?\s*:\s*` + clause)},
	{Name: "note", Type: model.MemoryFact, Score: factScore,
		Pattern: regexp.MustCompile(`(?i)\b(?:note|important)\s*:\s*` + clause)},
	{Name: "working-on", Type: model.MemoryTopic, Score: topicScore, UserOnly: true,
		Pattern: regexp.MustCompile(`(?i)\bI(?:'m|\s+am)\s+(?:working on|building|developing|learning|studying|writing)\s+` + clause)},
	{Name: "my-project", Type: model.MemoryTopic, Score: topicScore, UserOnly: true,
		Pattern: regexp.MustCompile(`(?i)\bmy\s+(?:project|goal|task)\s+is\s+` + clause)},
}

// Bookmark importance keywords.
var (
	HighImportance = KeywordRule{Name: "high-importance", Weight: 3, Tag: "important", Words: wordSet(
		"important", "critical", "key", "essential", "crucial", "decision",
		"solution", "conclusion", "summary", "remember", "warning", "note",
	)}
	MediumImportance = KeywordRule{Name: "medium-importance", Weight: 2, Tag: "useful", Words: wordSet(
		"example", "tip", "recommend", "recommendation", "suggestion", "best",
		"approach", "method", "strategy", "explanation", "definition",
		"tutorial", "guide", "technique", "process",
	)}
)

// DefaultBookmarkRules are the structural signals of a bookmark-worthy response.
var DefaultBookmarkRules = []Rule{
	{Name: "question", Weight: 2, Tag: "question",
		Match: Matches(regexp.MustCompile(`(?i)\?|\b(?:how to|what is|why does|how do)\b`))},
	{Name: "code", Weight: 3, Tag: "code", Match: Contains("`")},
	{Name: "list", Weight: 2, Tag: "list",
		Match: Matches(regexp.MustCompile(`(?m)^\s*(?:[-*+•]|\d+\.)\s+\S`))},
	{Name: "url", Weight: 1, Tag: "reference",
		Match: Matches(regexp.MustCompile(`https?://\S+`))},
	{Name: "long", Weight: 1, Tag: "detailed", Match: LongerThan(500)},
	{Name: "steps", Weight: 3, Tag: "tutorial",
		Match: Matches(regexp.MustCompile(`(?is)\bstep\s*\d|\bfirst\b.*\bsecond\b.*\bthird\b`))},
}
