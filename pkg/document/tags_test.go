package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdpane/pkg/document"
)

func TestTagsFollowEdits(t *testing.T) {
	t.Parallel()

	buf := document.New("foo bar foo")
	buf.AddTag("hit", 0, 3)
	buf.AddTag("hit", 8, 11)

	// Insert before both ranges shifts them.
	buf.InsertAt(0, ">")
	assert.Equal(t, []document.Range{{Start: 1, End: 4}, {Start: 9, End: 12}}, buf.TagRanges("hit"))

	// Insert at a range start is not tagged.
	buf.InsertAt(1, "_")
	assert.Equal(t, []document.Range{{Start: 2, End: 5}, {Start: 10, End: 13}}, buf.TagRanges("hit"))

	// Deleting a tagged range removes it.
	buf.DeleteRange(2, 5)
	assert.Equal(t, []document.Range{{Start: 7, End: 10}}, buf.TagRanges("hit"))
}

func TestTagsAt(t *testing.T) {
	t.Parallel()

	buf := document.New("abcdef")
	buf.AddTag("all", 0, 6)
	buf.AddTag("current", 2, 4)
	buf.AddTag("empty", 3, 3)

	assert.Equal(t, []string{"all", "current"}, buf.TagsAt(2))
	assert.Equal(t, []string{"all"}, buf.TagsAt(4))
	assert.Empty(t, buf.TagsAt(6))

	buf.RemoveTag("current")
	assert.Equal(t, []string{"all"}, buf.TagsAt(2))
}
