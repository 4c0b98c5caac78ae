package search_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpane/pkg/document"
	"github.com/yaklabco/mdpane/pkg/search"
)

type recordingTranslator struct {
	keys []string
}

func (r *recordingTranslator) T(key string, kv ...any) string {
	r.keys = append(r.keys, key)
	return fmt.Sprint(append([]any{key}, kv...)...)
}

func TestSessionShowSeedsFromSelection(t *testing.T) {
	t.Parallel()

	buf := document.New("foo bar foo")
	buf.SetSelection(8, 11)

	sess := search.NewSession(buf, nil)
	sess.Show(false)

	assert.True(t, sess.Visible())
	assert.False(t, sess.ReplaceMode())
	assert.Equal(t, "foo", sess.Query())
	assert.Equal(t, "1 of 2", sess.Counter())
}

func TestSessionShowIgnoresMultilineSelection(t *testing.T) {
	t.Parallel()

	buf := document.New("foo\nbar")
	buf.SetSelection(0, 7)

	sess := search.NewSession(buf, nil)
	sess.Show(true)

	assert.True(t, sess.ReplaceMode())
	assert.Empty(t, sess.Query())
	assert.Empty(t, sess.Counter())
}

func TestSessionCaseToggle(t *testing.T) {
	t.Parallel()

	buf := document.New("Foo foo")
	sess := search.NewSession(buf, nil)
	sess.Show(false)
	sess.SetQuery("foo")
	require.Len(t, sess.State().Matches, 2)

	sess.ToggleCase()
	assert.True(t, sess.CaseSensitive())
	assert.Len(t, sess.State().Matches, 1)
	assert.Equal(t, "1 of 1", sess.Counter())

	sess.SetQuery("FOO")
	assert.Equal(t, "No results", sess.Counter())
}

func TestSessionNavigation(t *testing.T) {
	t.Parallel()

	buf := document.New("x x x")
	sess := search.NewSession(buf, nil)
	sess.Show(false)
	sess.SetQuery("x")

	assert.True(t, sess.Next())
	assert.Equal(t, "2 of 3", sess.Counter())
	assert.True(t, sess.Previous())
	assert.True(t, sess.Previous())
	assert.Equal(t, "3 of 3", sess.Counter())
}

func TestSessionHideClearsHighlights(t *testing.T) {
	t.Parallel()

	buf := document.New("foo foo")
	sess := search.NewSession(buf, nil)
	sess.Show(false)
	sess.SetQuery("foo")
	require.NotEmpty(t, buf.TagRanges(search.TagMatch))

	require.True(t, sess.Next())
	sess.Hide()
	assert.False(t, sess.Visible())
	assert.Equal(t, "foo", buf.SelectedText())
	sel, _ := buf.Selection()
	assert.Equal(t, document.Range{Start: 4, End: 7}, sel, "current match stays selected")
	assert.Empty(t, buf.TagRanges(search.TagMatch))
	assert.Empty(t, buf.TagRanges(search.TagCurrent))
	assert.Equal(t, "foo", sess.Query())

	buf.InsertAt(0, "foo ")
	sess.Refresh()
	assert.Empty(t, buf.TagRanges(search.TagMatch), "hidden bar does not re-index")

	sess.Show(false)
	assert.Len(t, sess.State().Matches, 3)
}

func TestSessionReplace(t *testing.T) {
	t.Parallel()

	buf := document.New("foo bar foo")
	sess := search.NewSession(buf, nil)
	sess.Show(true)
	sess.SetQuery("foo")
	sess.SetReplacement("baz")

	require.NoError(t, sess.Replace())
	assert.Equal(t, "baz bar foo", buf.Text())
	assert.Equal(t, "1 of 1", sess.Counter())

	assert.True(t, sess.ReplaceAll())
	assert.Equal(t, "baz bar baz", buf.Text())
	assert.Equal(t, "No results", sess.Counter())

	require.ErrorIs(t, sess.Replace(), search.ErrNoCurrentMatch)
}

func TestSessionCounterUsesTranslator(t *testing.T) {
	t.Parallel()

	tr := &recordingTranslator{}
	buf := document.New("ab ab")
	sess := search.NewSession(buf, tr)
	sess.Show(false)
	sess.SetQuery("ab")

	assert.Equal(t, fmt.Sprint(search.KeyCount, "current", 1, "total", 2), sess.Counter())

	sess.SetQuery("zz")
	sess.Counter()
	assert.Equal(t, []string{search.KeyCount, search.KeyNoResults}, tr.keys)
}
