package editor

import (
	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/search"
)

// ShowFind opens the find bar, with the replace row when withReplace is
// set.
func (e *Editor) ShowFind(withReplace bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.find.Show(withReplace)
}

// HideFind closes the find bar and clears its highlights.
func (e *Editor) HideFind() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.find.Hide()
}

// SetQuery searches for query.
func (e *Editor) SetQuery(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.find.SetQuery(query)
}

// SetCaseSensitive sets the find bar's case toggle.
func (e *Editor) SetCaseSensitive(caseSensitive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.find.SetCaseSensitive(caseSensitive)
}

// ToggleCase flips the find bar's case toggle.
func (e *Editor) ToggleCase() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.find.ToggleCase()
}

// FindNext moves to the next match.
func (e *Editor) FindNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.find.Next()
}

// FindPrevious moves to the previous match.
func (e *Editor) FindPrevious() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.find.Previous()
}

// SetReplacement sets the replace-with text.
func (e *Editor) SetReplacement(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.find.SetReplacement(text)
}

// ReplaceCurrent replaces the current match.
func (e *Editor) ReplaceCurrent() error {
	e.mu.Lock()
	err := e.find.Replace()
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.sched.OnEdit()
	return nil
}

// ReplaceAll replaces every match and returns how many there were.
func (e *Editor) ReplaceAll() int {
	e.mu.Lock()
	st := e.find.State()
	count := search.CountReplacements(e.buf.Text(), st.Query, st.CaseSensitive)
	changed := e.find.ReplaceAll()
	if changed {
		e.setStatusLocked("find.replaced", "count", count)
	}
	e.mu.Unlock()

	if !changed {
		return 0
	}
	e.logger.Debug("replaced all",
		logging.FieldQuery, st.Query,
		logging.FieldReplaced, count,
	)
	e.sched.OnEdit()
	return count
}

// FindState returns a copy of the search state.
func (e *Editor) FindState() search.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.find.State()
}

// FindVisible reports whether the find bar is open.
func (e *Editor) FindVisible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.find.Visible()
}

// Counter returns the find bar's match counter text.
func (e *Editor) Counter() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.find.Counter()
}
