// Package textutil splits message text into the words, keywords and
// sentences the scoring packages work on.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nonWord       = regexp.MustCompile(`[^\w\s]`)
	sentenceBreak = regexp.MustCompile(`[.!?\n]`)
	numeric       = regexp.MustCompile(`^\d+$`)
)

// StopWords are common English words ignored by keyword extraction.
var StopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "up": true, "about": true, "into": true,
	"through": true, "during": true, "before": true, "after": true, "above": true,
	"below": true, "between": true, "among": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "this": true, "that": true,
	"these": true, "those": true, "i": true, "you": true, "he": true, "she": true,
	"it": true, "we": true, "they": true, "me": true, "him": true, "her": true,
	"us": true, "them": true, "my": true, "your": true, "his": true, "its": true,
	"our": true, "their": true, "what": true, "which": true, "who": true,
	"when": true, "where": true, "why": true, "how": true, "not": true, "no": true,
	"yes": true, "all": true, "any": true, "some": true, "just": true, "also": true,
	"very": true, "than": true, "then": true, "there": true, "here": true,
	"out": true, "over": true, "only": true, "own": true, "same": true, "so": true,
	"too": true, "more": true, "most": true, "other": true, "such": true,
	"each": true, "few": true, "both": true, "now": true, "get": true, "got": true,
	"like": true, "one": true, "use": true, "used": true, "using": true,
	"if": true, "as": true, "because": true, "while": true, "until": true,
	"again": true, "further": true, "once": true, "don": true, "let": true,
	"well": true, "way": true, "make": true, "made": true, "want": true,
}

// Words lowercases text, strips punctuation and splits on whitespace.
func Words(text string) []string {
	return strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))
}

// IsNumeric reports whether w consists only of digits.
func IsNumeric(w string) bool {
	return numeric.MatchString(w)
}

// KeywordOptions bounds which words count as keywords.
type KeywordOptions struct {
	MinLen int // inclusive
	MaxLen int // inclusive, 0 means unbounded
	Limit  int // 0 means unbounded
	// SkipNumeric drops purely numeric tokens.
	SkipNumeric bool
}

// Keep reports whether a single lowercased word passes the options and the stop-word list.
func (o KeywordOptions) Keep(w string) bool {
	n := utf8.RuneCountInString(w)
	if n < o.MinLen || (o.MaxLen > 0 && n > o.MaxLen) {
		return false
	}
	if o.SkipNumeric && IsNumeric(w) {
		return false
	}
	return !StopWords[w]
}

// Keywords returns the distinct words of text that pass opts, in first-seen order.
func Keywords(text string, opts KeywordOptions) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range Words(text) {
		if seen[w] || !opts.Keep(w) {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out
}

// CountWords counts whitespace-delimited non-empty tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// FirstSentence returns the first non-empty sentence of text, trimmed.
func FirstSentence(text string) string {
	for _, s := range sentenceBreak.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Truncate shortens s to max runes, replacing the tail with "..." when it is cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// FirstWords returns the first n whitespace-delimited words of text, with
// "..." appended when more words follow.
func FirstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

// Snippet returns up to radius runes either side of the match at byte offset
// idx, marking cut ends with "...".
func Snippet(text string, idx, length, radius int) string {
	if idx < 0 || idx > len(text) {
		return Truncate(text, 2*radius)
	}
	start := idx
	for n := 0; start > 0 && n < radius; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := idx + length
	if end > len(text) {
		end = len(text)
	}
	for n := 0; end < len(text) && n < radius; n++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	out := text[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}
