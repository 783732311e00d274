// Package tokens approximates language-model token counts from text length.
package tokens

import "unicode/utf8"

// DefaultCharsPerToken is the rough characters-per-token ratio for English text.
const DefaultCharsPerToken = 4

// Estimator approximates tokens as ceil(chars / CharsPerToken). The estimate
// never decreases as text grows, which budget packing relies on.
type Estimator struct {
	CharsPerToken int // defaults to DefaultCharsPerToken if zero
}

// Default returns an estimator using DefaultCharsPerToken.
func Default() Estimator {
	return Estimator{CharsPerToken: DefaultCharsPerToken}
}

func (e Estimator) ratio() int {
	if e.CharsPerToken <= 0 {
		return DefaultCharsPerToken
	}
	return e.CharsPerToken
}

// Estimate returns the approximate token count of text. Empty text is 0.
func (e Estimator) Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	k := e.ratio()
	return (n + k - 1) / k
}
