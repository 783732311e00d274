package memory

import (
	"math"

	"github.com/google/uuid"

	"github.com/rcliao/chatcore/internal/logger"
	"github.com/rcliao/chatcore/internal/model"
	"github.com/rcliao/chatcore/internal/textutil"
)

const (
	suggestThreshold = 2
	mediumThreshold  = 3
	highThreshold    = 6
	titleLength      = 60
	descriptionWords = 15
)

var fallbackTitles = map[string]string{
	"code":      "Code snippet",
	"tutorial":  "Step-by-step guide",
	"list":      "List of points",
	"reference": "Reference links",
	"important": "Important note",
	"useful":    "Useful explanation",
}

// Analysis is the scoring breakdown of a message.
type Analysis struct {
	Score      int              `json:"score"`
	Tags       []string         `json:"tags"`
	Importance model.Importance `json:"importance"`
	Confidence float64          `json:"confidence"`
	Hits       map[string]int   `json:"hits"` // rule name to contributed points
}

// Analyzer scores assistant messages for bookmark suggestions.
type Analyzer struct {
	Keywords []KeywordRule
	Rules    []Rule
}

// NewAnalyzer returns an analyzer with the default keyword and structural rules.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Keywords: []KeywordRule{HighImportance, MediumImportance},
		Rules:    DefaultBookmarkRules,
	}
}

// Score evaluates every rule against text.
func (a *Analyzer) Score(text string) Analysis {
	an := Analysis{Hits: map[string]int{}}
	tagged := map[string]bool{}
	tag := func(t string) {
		if t != "" && !tagged[t] {
			tagged[t] = true
			an.Tags = append(an.Tags, t)
		}
	}

	words := textutil.Words(text)
	for _, k := range a.Keywords {
		if n := k.Count(words); n > 0 {
			an.Hits[k.Name] = n * k.Weight
			an.Score += n * k.Weight
			tag(k.Tag)
		}
	}
	for _, r := range a.Rules {
		if r.Match(text) {
			an.Hits[r.Name] = r.Weight
			an.Score += r.Weight
			tag(r.Tag)
		}
	}

	switch {
	case an.Score >= highThreshold:
		an.Importance = model.ImportanceHigh
	case an.Score >= mediumThreshold:
		an.Importance = model.ImportanceMedium
	default:
		an.Importance = model.ImportanceLow
	}
	an.Confidence = math.Min(float64(an.Score)/10, 1)
	return an
}

// Analyze returns a suggestion for msg, or false when msg is not an
// assistant response or scores below the suggestion threshold.
func (a *Analyzer) Analyze(msg model.Message, chatID string) (*model.Bookmark, bool) {
	if msg.Role != model.RoleResponse {
		return nil, false
	}
	an := a.Score(msg.Text)
	if an.Score < suggestThreshold {
		return nil, false
	}
	return &model.Bookmark{
		ID:          BookmarkID(chatID, msg.ID),
		MessageID:   msg.ID,
		ChatID:      chatID,
		Type:        model.BookmarkAISuggested,
		Title:       title(msg.Text, an.Tags),
		Description: textutil.FirstWords(msg.Text, descriptionWords),
		Tags:        an.Tags,
		Importance:  an.Importance,
		Confidence:  an.Confidence,
	}, true
}

// Suggest analyzes every response in chat.
func (a *Analyzer) Suggest(chat *model.Chat) []model.Bookmark {
	var out []model.Bookmark
	for _, msg := range chat.Messages {
		if err := msg.Validate(); err != nil {
			logger.L().Warnw("skipping message", "op", "suggest_bookmarks", "chat_id", chat.ID, "err", err)
			continue
		}
		logger.Guard("suggest_bookmarks", func() {
			if b, ok := a.Analyze(msg, chat.ID); ok {
				out = append(out, *b)
			}
		}, "chat_id", chat.ID, "message_id", msg.ID)
	}
	return out
}

// AnalyzeMessage applies the default analyzer to msg.
func AnalyzeMessage(msg model.Message, chatID string) (*model.Bookmark, bool) {
	return NewAnalyzer().Analyze(msg, chatID)
}

// UserBookmark creates an accepted bookmark chosen by the user.
func UserBookmark(msg model.Message, chatID, title string, tags []string) model.Bookmark {
	if title == "" {
		title = textutil.Truncate(textutil.FirstSentence(msg.Text), titleLength)
	}
	return model.Bookmark{
		ID:          uuid.NewSHA1(bookmarkNamespace, []byte("user/"+chatID+"/"+msg.ID)).String(),
		MessageID:   msg.ID,
		ChatID:      chatID,
		Type:        model.BookmarkUser,
		Title:       title,
		Description: textutil.FirstWords(msg.Text, descriptionWords),
		Tags:        tags,
		Importance:  model.ImportanceMedium,
		Confidence:  1,
		Accepted:    true,
	}
}

// BookmarkID is the suggestion ID for a message.
func BookmarkID(chatID, msgID string) string {
	return uuid.NewSHA1(bookmarkNamespace, []byte(chatID+"/"+msgID)).String()
}

func title(text string, tags []string) string {
	if s := textutil.FirstSentence(text); s != "" {
		return textutil.Truncate(s, titleLength)
	}
	for _, t := range tags {
		if label, ok := fallbackTitles[t]; ok {
			return label
		}
	}
	return "Bookmarked response"
}
