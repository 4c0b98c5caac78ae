package search

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrNoCurrentMatch is returned by ReplaceCurrent when there is nothing to
// replace.
var ErrNoCurrentMatch = errors.New("no current match")

// ReplaceCurrent replaces the current match with replacement and re-indexes
// the mutated text. The current index is kept when still in range and
// clamped to the first match otherwise.
//
// If the host changed since the last index, the query is re-run first so the
// replacement never lands on a stale span.
func ReplaceCurrent(nav *Navigator, replacement string) error {
	if nav.Stale() {
		nav.Refresh()
	}

	match, ok := nav.Current()
	if !ok {
		return ErrNoCurrentMatch
	}

	nav.host.DeleteRange(match.Start, match.End)
	nav.host.InsertAt(match.Start, replacement)

	nav.Refresh()
	nav.Focus()

	return nil
}

// ReplaceAll replaces every occurrence of query in text.
//
// Case-sensitive replacement is a plain literal substitution. Case-insensitive
// replacement matches the escaped query with a case-insensitive regular
// expression; replacement is inserted literally, "$1" included. An empty
// query returns text unchanged.
func ReplaceAll(text, query, replacement string, caseSensitive bool) string {
	if query == "" {
		return text
	}
	if caseSensitive {
		return strings.ReplaceAll(text, query, replacement)
	}

	return foldPattern(query).ReplaceAllLiteralString(text, replacement)
}

// CountReplacements returns how many substitutions ReplaceAll would make.
// Unlike Index, occurrences do not overlap.
func CountReplacements(text, query string, caseSensitive bool) int {
	if query == "" {
		return 0
	}
	if caseSensitive {
		return strings.Count(text, query)
	}
	return len(foldPattern(query).FindAllStringIndex(text, -1))
}

func foldPattern(query string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

// ReplaceAllIn applies ReplaceAll to the navigator's host using the active
// query and re-indexes. It reports whether the text changed.
func ReplaceAllIn(nav *Navigator, replacement string) bool {
	st := nav.state
	text := nav.host.Text()

	out := ReplaceAll(text, st.Query, replacement, st.CaseSensitive)
	if out == text {
		return false
	}

	nav.host.DeleteRange(0, utf8.RuneCountInString(text))
	nav.host.InsertAt(0, out)
	nav.Refresh()

	return true
}
