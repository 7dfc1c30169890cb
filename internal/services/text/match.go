package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into the searched text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether the spans overlap or touch.
func (s Span) Overlaps(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FindWords returns every occurrence of needle in haystack as a whole word,
// case-insensitive. A character counts as part of a word when it is a letter
// or digit; a lower-to-upper case transition also counts as a word boundary,
// so "Open" matches inside "OpenAI" but "open" never matches inside
// "reopened". Multi-word needles match across their internal separators
// verbatim after case folding.
func FindWords(haystack, needle string) []Span {
	if needle == "" || len(needle) > len(haystack) {
		return nil
	}
	var spans []Span
	n := len(needle)
	for i := 0; i+n <= len(haystack); i++ {
		if !strings.EqualFold(haystack[i:i+n], needle) {
			continue
		}
		if !boundaryBefore(haystack, i) || !boundaryAfter(haystack, i+n) {
			continue
		}
		spans = append(spans, Span{Start: i, End: i + n})
	}
	return spans
}

// FindAll returns every case-insensitive occurrence of needle without
// boundary checks. Used for exclusion phrases, which match as substrings.
func FindAll(haystack, needle string) []Span {
	if needle == "" || len(needle) > len(haystack) {
		return nil
	}
	var spans []Span
	n := len(needle)
	for i := 0; i+n <= len(haystack); i++ {
		if strings.EqualFold(haystack[i:i+n], needle) {
			spans = append(spans, Span{Start: i, End: i + n})
		}
	}
	return spans
}

// CountWords sums whole-word occurrences of each needle.
func CountWords(haystack string, needles []string) int {
	total := 0
	for _, w := range needles {
		total += len(FindWords(haystack, w))
	}
	return total
}

// FindStems matches needle at the start of a word, tolerating inflected
// endings: "surge" matches "Surges" but "gain" never matches "again".
func FindStems(haystack, needle string) []Span {
	if needle == "" || len(needle) > len(haystack) {
		return nil
	}
	var spans []Span
	n := len(needle)
	for i := 0; i+n <= len(haystack); i++ {
		if !strings.EqualFold(haystack[i:i+n], needle) {
			continue
		}
		if !boundaryBefore(haystack, i) {
			continue
		}
		spans = append(spans, Span{Start: i, End: i + n})
	}
	return spans
}

// CountStems sums word-start occurrences of each needle.
func CountStems(haystack string, needles []string) int {
	total := 0
	for _, w := range needles {
		total += len(FindStems(haystack, w))
	}
	return total
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	if !isWordRune(prev) {
		return true
	}
	cur, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}

func boundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(s[end:])
	if !isWordRune(next) {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(s[:end])
	return unicode.IsLower(last) && unicode.IsUpper(next)
}

// WordIndexAt returns the index of the word containing byte offset off,
// counting words from 0. Offsets inside separators belong to the preceding
// word for the purpose of distance measurement.
func WordIndexAt(s string, off int) int {
	if off > len(s) {
		off = len(s)
	}
	idx := -1
	inWord := false
	for i, r := range s {
		if i > off {
			break
		}
		if isWordRune(r) {
			if !inWord {
				idx++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	if idx < 0 {
		return 0
	}
	return idx
}

// WordDistance measures how many words apart two byte offsets are.
func WordDistance(s string, a, b int) int {
	d := WordIndexAt(s, a) - WordIndexAt(s, b)
	if d < 0 {
		return -d
	}
	return d
}
