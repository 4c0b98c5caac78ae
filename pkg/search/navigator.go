package search

// Highlight tags applied to the host. Every match carries TagMatch; the
// current match additionally carries TagCurrent, which hosts draw on top.
const (
	TagMatch   = "find_highlight"
	TagCurrent = "find_current"
)

// Host is the editing surface the engine drives. document.Buffer implements
// it.
type Host interface {
	Text() string
	Version() uint64
	SelectedText() string
	SetSelection(start, end int)
	SetCursor(offset int)
	ScrollIntoView(offset int)
	AddTag(tag string, start, end int)
	RemoveTag(tag string)
	DeleteRange(start, end int)
	InsertAt(offset int, text string) int
}

// State is a snapshot of the search. Current is -1 when there are no
// matches and a valid index into Matches otherwise.
type State struct {
	Query         string
	CaseSensitive bool
	Matches       []MatchSpan
	Current       int

	// Version is the host version Matches were computed against.
	Version uint64
}

// Navigator tracks the current match and keeps the host's highlights in
// step with it.
type Navigator struct {
	host  Host
	state State
}

// NewNavigator returns a navigator with no query.
func NewNavigator(host Host) *Navigator {
	return &Navigator{
		host:  host,
		state: State{Current: -1},
	}
}

// State returns a copy of the current search state.
func (n *Navigator) State() State {
	st := n.state
	if st.Matches != nil {
		st.Matches = append([]MatchSpan(nil), st.Matches...)
	}
	return st
}

// Count returns the number of matches.
func (n *Navigator) Count() int {
	return len(n.state.Matches)
}

// Current returns the current match.
func (n *Navigator) Current() (MatchSpan, bool) {
	if n.state.Current < 0 {
		return MatchSpan{}, false
	}
	return n.state.Matches[n.state.Current], true
}

// Stale reports whether the host changed since the matches were computed.
func (n *Navigator) Stale() bool {
	return n.host.Version() != n.state.Version
}

// Search runs a new query against the host text. The first match becomes
// current.
func (n *Navigator) Search(query string, caseSensitive bool) {
	n.state.Query = query
	n.state.CaseSensitive = caseSensitive
	n.Reset(Index(n.host.Text(), query, caseSensitive))
}

// Refresh re-indexes the current query against the host text, keeping the
// current index where it is still valid.
func (n *Navigator) Refresh() {
	n.Reindex(Index(n.host.Text(), n.state.Query, n.state.CaseSensitive))
}

// Reset replaces the matches as for a new query.
func (n *Navigator) Reset(matches []MatchSpan) {
	n.state.Matches = matches
	n.state.Version = n.host.Version()
	n.paintMatches()

	if len(matches) == 0 {
		n.state.Current = -1
		return
	}
	n.state.Current = 0
	n.focus()
}

// Reindex replaces the matches after the document changed.
//
// Going from no matches to some selects the first; going to none clears the
// current match; a current index past the end of a shorter list is clamped
// to 0. Otherwise the current index is kept, repainted, and the cursor is
// left alone.
func (n *Navigator) Reindex(matches []MatchSpan) {
	prev := n.state.Current
	n.state.Matches = matches
	n.state.Version = n.host.Version()
	n.paintMatches()

	switch {
	case len(matches) == 0:
		n.state.Current = -1
	case prev < 0 || prev >= len(matches):
		n.state.Current = 0
		n.focus()
	default:
		n.paintCurrent()
	}
}

// Next moves to the following match, wrapping to the first.
func (n *Navigator) Next() bool {
	count := len(n.state.Matches)
	if count == 0 {
		return false
	}
	n.state.Current = (n.state.Current + 1) % count
	n.focus()
	return true
}

// Previous moves to the preceding match, wrapping to the last.
func (n *Navigator) Previous() bool {
	count := len(n.state.Matches)
	if count == 0 {
		return false
	}
	n.state.Current = (n.state.Current - 1 + count) % count
	n.focus()
	return true
}

// Focus re-applies the current-match highlight and moves the cursor and
// viewport to it.
func (n *Navigator) Focus() {
	if n.state.Current >= 0 {
		n.focus()
	}
}

// Clear drops the matches and every highlight. The query and case toggle
// are kept.
func (n *Navigator) Clear() {
	n.host.RemoveTag(TagMatch)
	n.host.RemoveTag(TagCurrent)
	n.state.Matches = nil
	n.state.Current = -1
	n.state.Version = n.host.Version()
}

func (n *Navigator) paintMatches() {
	n.host.RemoveTag(TagMatch)
	n.host.RemoveTag(TagCurrent)
	for _, m := range n.state.Matches {
		n.host.AddTag(TagMatch, m.Start, m.End)
	}
}

func (n *Navigator) paintCurrent() {
	n.host.RemoveTag(TagCurrent)
	m := n.state.Matches[n.state.Current]
	n.host.AddTag(TagCurrent, m.Start, m.End)
}

// focus highlights the current match, scrolls to it and moves the cursor to
// its start.
func (n *Navigator) focus() {
	n.paintCurrent()
	start := n.state.Matches[n.state.Current].Start
	n.host.ScrollIntoView(start)
	n.host.SetCursor(start)
}
