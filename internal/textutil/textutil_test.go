package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestWords_StripsPunctuation(t *testing.T) {
	got := Words("Hello, World! It's 2024.")
	want := []string{"hello", "world", "it", "s", "2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words() = %v, want %v", got, want)
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts KeywordOptions
		want []string
	}{
		{"drops stop words", "I prefer dark mode", KeywordOptions{MinLen: 3}, []string{"prefer", "dark", "mode"}},
		{"dedupes in first-seen order", "gopher go gopher", KeywordOptions{MinLen: 2}, []string{"gopher", "go"}},
		{"limit", "alpha beta gamma delta", KeywordOptions{MinLen: 3, Limit: 2}, []string{"alpha", "beta"}},
		{"numeric skipped", "release 2024 notes", KeywordOptions{MinLen: 3, SkipNumeric: true}, []string{"release", "notes"}},
		{"max length", "short extraordinarily", KeywordOptions{MinLen: 3, MaxLen: 5}, []string{"short"}},
		{"empty", "", KeywordOptions{MinLen: 3}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keywords(tt.text, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFirstSentence(t *testing.T) {
	if got := FirstSentence("\n  Use a map. Then iterate."); got != "Use a map" {
		t.Errorf("got %q", got)
	}
	if got := FirstSentence("..."); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 70)
	got := Truncate(long, 60)
	if len(got) != 60 || !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate() = %q (len %d)", got, len(got))
	}
	if Truncate("short", 60) != "short" {
		t.Error("short strings should be untouched")
	}
}

func TestFirstWords(t *testing.T) {
	if got := FirstWords("one two three", 5); got != "one two three" {
		t.Errorf("got %q", got)
	}
	if got := FirstWords("one two three four", 2); got != "one two..." {
		t.Errorf("got %q", got)
	}
}

func TestSnippet(t *testing.T) {
	text := strings.Repeat("a", 100) + "needle" + strings.Repeat("b", 100)
	got := Snippet(text, 100, 6, 10)
	want := "..." + strings.Repeat("a", 10) + "needle" + strings.Repeat("b", 10) + "..."
	if got != want {
		t.Errorf("Snippet() = %q, want %q", got, want)
	}
	if got := Snippet("needle here", 0, 6, 50); got != "needle here" {
		t.Errorf("Snippet() at start = %q", got)
	}
}

func TestCountWords(t *testing.T) {
	if n := CountWords("  one\ttwo\nthree  "); n != 3 {
		t.Errorf("CountWords() = %d, want 3", n)
	}
	if n := CountWords(""); n != 0 {
		t.Errorf("CountWords(\"\") = %d, want 0", n)
	}
}
