// Package search implements the find/replace engine of the editor: match
// indexing, current-match navigation with two-tier highlighting, and
// single/all replacement.
//
// All offsets are rune offsets into the document text.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchSpan is one occurrence of the query: the half-open rune range
// [Start, End).
type MatchSpan struct {
	Start int
	End   int
}

// Len returns the span length in runes.
func (m MatchSpan) Len() int {
	return m.End - m.Start
}

// Index returns every occurrence of query in text, ordered by start offset.
//
// Matching is literal. Without caseSensitive, text and query are lower-cased
// rune by rune before scanning; the mapping is 1:1 so offsets in the folded
// text are offsets in the original. Folds that change rune count (ß to ss)
// are not recognized.
//
// After a match at p the scan resumes at p+1, so overlapping occurrences are
// all reported: "aa" in "aaa" matches at 0 and 1.
//
// An empty query has no matches.
func Index(text, query string, caseSensitive bool) []MatchSpan {
	if query == "" {
		return nil
	}

	hay, needle := text, query
	if !caseSensitive {
		hay, needle = fold(text), fold(query)
	}
	queryLen := utf8.RuneCountInString(needle)

	var spans []MatchSpan
	byteOff, runeOff := 0, 0
	for byteOff < len(hay) {
		idx := strings.Index(hay[byteOff:], needle)
		if idx < 0 {
			break
		}

		runeOff += utf8.RuneCountInString(hay[byteOff : byteOff+idx])
		byteOff += idx
		spans = append(spans, MatchSpan{Start: runeOff, End: runeOff + queryLen})

		// Resume one rune after the match start.
		_, size := utf8.DecodeRuneInString(hay[byteOff:])
		byteOff += size
		runeOff++
	}

	return spans
}

// fold lower-cases s one rune at a time. Invalid bytes become U+FFFD, one
// rune each, which keeps rune counts aligned with the original.
func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}
