package search

import (
	"fmt"
	"strings"
)

// Counter message keys looked up through the Translator.
const (
	KeyCount     = "find.count"
	KeyNoResults = "find.no_results"
)

// Translator resolves a message key, filling named placeholders from
// alternating name/value pairs. locale.Service implements it.
type Translator interface {
	T(key string, kv ...any) string
}

// Session is the find bar: the query and case toggle, the replacement text,
// and the navigator they drive over a single host.
type Session struct {
	host        Host
	nav         *Navigator
	tr          Translator
	visible     bool
	replaceMode bool
	replacement string
}

// NewSession returns a hidden find bar over host. A nil Translator yields
// English counter text.
func NewSession(host Host, tr Translator) *Session {
	return &Session{
		host: host,
		nav:  NewNavigator(host),
		tr:   tr,
	}
}

// Show opens the bar, with the replace row when withReplace is set. A
// single-line selection becomes the query; otherwise the previous query is
// searched again.
func (s *Session) Show(withReplace bool) {
	s.visible = true
	s.replaceMode = withReplace

	if sel := s.host.SelectedText(); sel != "" && !strings.Contains(sel, "\n") {
		s.SetQuery(sel)
		return
	}
	s.search()
}

// Hide closes the bar and clears every highlight, leaving the current match
// selected. The query is kept for the next Show.
func (s *Session) Hide() {
	if m, ok := s.nav.Current(); ok && s.visible {
		s.host.SetSelection(m.Start, m.End)
	}
	s.visible = false
	s.replaceMode = false
	s.nav.Clear()
}

// Visible reports whether the bar is open.
func (s *Session) Visible() bool { return s.visible }

// ReplaceMode reports whether the replace row is shown.
func (s *Session) ReplaceMode() bool { return s.replaceMode }

// Query returns the active query.
func (s *Session) Query() string { return s.nav.state.Query }

// CaseSensitive reports the case toggle.
func (s *Session) CaseSensitive() bool { return s.nav.state.CaseSensitive }

// SetQuery runs a new search; the first match becomes current.
func (s *Session) SetQuery(query string) {
	s.nav.state.Query = query
	s.search()
}

// SetCaseSensitive sets the case toggle and re-runs the search.
func (s *Session) SetCaseSensitive(caseSensitive bool) {
	if s.nav.state.CaseSensitive == caseSensitive {
		return
	}
	s.nav.state.CaseSensitive = caseSensitive
	s.search()
}

// ToggleCase flips the case toggle and re-runs the search.
func (s *Session) ToggleCase() {
	s.SetCaseSensitive(!s.nav.state.CaseSensitive)
}

// Next moves to the following match.
func (s *Session) Next() bool {
	s.ensureFresh()
	return s.nav.Next()
}

// Previous moves to the preceding match.
func (s *Session) Previous() bool {
	s.ensureFresh()
	return s.nav.Previous()
}

// SetReplacement sets the replacement text.
func (s *Session) SetReplacement(text string) { s.replacement = text }

// Replacement returns the replacement text.
func (s *Session) Replacement() string { return s.replacement }

// Replace replaces the current match.
func (s *Session) Replace() error {
	return ReplaceCurrent(s.nav, s.replacement)
}

// ReplaceAll replaces every match and reports whether the text changed.
func (s *Session) ReplaceAll() bool {
	return ReplaceAllIn(s.nav, s.replacement)
}

// Refresh re-indexes after the host text changed. It does nothing while the
// bar is hidden.
func (s *Session) Refresh() {
	if !s.visible || s.nav.state.Query == "" {
		return
	}
	s.nav.Refresh()
}

// State returns a copy of the search state.
func (s *Session) State() State {
	return s.nav.State()
}

// Counter returns the match counter text: empty without a query, the
// no-results message without matches, "current of total" otherwise.
func (s *Session) Counter() string {
	st := s.nav.state
	switch {
	case st.Query == "":
		return ""
	case len(st.Matches) == 0:
		return s.translate(KeyNoResults)
	default:
		return s.translate(KeyCount, "current", st.Current+1, "total", len(st.Matches))
	}
}

func (s *Session) search() {
	st := s.nav.state
	if st.Query == "" {
		s.nav.Clear()
		return
	}
	s.nav.Search(st.Query, st.CaseSensitive)
}

func (s *Session) ensureFresh() {
	if s.nav.state.Query != "" && s.nav.Stale() {
		s.nav.Refresh()
	}
}

func (s *Session) translate(key string, kv ...any) string {
	if s.tr != nil {
		return s.tr.T(key, kv...)
	}
	if key == KeyNoResults {
		return "No results"
	}
	return fmt.Sprintf("%v of %v", kv[1], kv[3])
}
