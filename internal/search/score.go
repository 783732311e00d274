package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match describes how a query matched a piece of text.
type Match struct {
	Score float64
	Index int // rune offset of an exact match, -1 for fuzzy
	Exact bool
}

const (
	maxExactScore  = 2.0
	fuzzyWeight    = 0.7
	longTextLength = 1000
)

// Score matches query against text. An exact case-insensitive substring
// match is scored by position; otherwise the fraction of query words found
// anywhere in the text is scaled by 0.7. ok is false when neither matches.
func Score(text, query string) (m Match, ok bool) {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return Match{}, false
	}
	// Lowering rune by rune keeps rune offsets aligned with text.
	lowerText := strings.Map(unicode.ToLower, text)
	lowerQuery := strings.Map(unicode.ToLower, query)

	if idx := strings.Index(lowerText, lowerQuery); idx >= 0 {
		pos := utf8.RuneCountInString(lowerText[:idx])
		return Match{Score: exactScore(text, lowerText, query, lowerQuery, idx, pos), Index: pos, Exact: true}, true
	}

	words := strings.Fields(lowerQuery)
	matched := 0
	for _, w := range words {
		if strings.Contains(lowerText, w) {
			matched++
		}
	}
	if matched == 0 {
		return Match{}, false
	}
	return Match{Score: float64(matched) / float64(len(words)) * fuzzyWeight, Index: -1}, true
}

// exactScore scores a match at byte offset idx of lowerText, which is
// rune offset pos.
func exactScore(text, lowerText, query, lowerQuery string, idx, pos int) float64 {
	score := 1.0
	if pos == 0 {
		score += 0.3
	}
	if pos < 10 {
		score += 0.2
	}
	if wordBounded(lowerText, idx, len(lowerQuery)) {
		score += 0.2
	}
	if strings.Contains(text, query) {
		score += 0.1
	}
	if utf8.RuneCountInString(text) > longTextLength {
		score *= 0.9
	}
	if score > maxExactScore {
		score = maxExactScore
	}
	return score
}

// wordBounded reports whether text[idx:idx+n] has whitespace (or the text
// edge) on both sides.
func wordBounded(text string, idx, n int) bool {
	if idx > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:idx])
		if !unicode.IsSpace(r) {
			return false
		}
	}
	if end := idx + n; end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// byteOffset returns the byte offset of the n-th rune of s, or len(s).
func byteOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}
