package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpane/pkg/document"
)

func TestPosAt(t *testing.T) {
	t.Parallel()

	buf := document.New("ab\ncd\n\nef")

	tests := []struct {
		offset int
		want   document.Pos
	}{
		{0, document.Pos{Line: 1, Col: 1}},
		{2, document.Pos{Line: 1, Col: 3}},
		{3, document.Pos{Line: 2, Col: 1}},
		{6, document.Pos{Line: 3, Col: 1}},
		{7, document.Pos{Line: 4, Col: 1}},
		{9, document.Pos{Line: 4, Col: 3}},
		{100, document.Pos{Line: 4, Col: 3}},
		{-1, document.Pos{Line: 1, Col: 1}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, buf.PosAt(tc.offset), "offset %d", tc.offset)
	}
}

func TestOffsetAtRoundTrip(t *testing.T) {
	t.Parallel()

	buf := document.New("héllo\nwörld\n")
	for offset := 0; offset <= buf.Len(); offset++ {
		pos := buf.PosAt(offset)
		got, ok := buf.OffsetAt(pos)
		require.True(t, ok, "pos %+v", pos)
		assert.Equal(t, offset, got)
	}
}

func TestOffsetAtOutOfRange(t *testing.T) {
	t.Parallel()

	buf := document.New("ab\ncd")

	for _, pos := range []document.Pos{
		{Line: 0, Col: 1},
		{Line: 3, Col: 1},
		{Line: 1, Col: 0},
		{Line: 1, Col: 5},
	} {
		_, ok := buf.OffsetAt(pos)
		assert.False(t, ok, "pos %+v", pos)
	}
}

func TestLineAndLineCount(t *testing.T) {
	t.Parallel()

	buf := document.New("one\ntwo\r\nthree")
	assert.Equal(t, 3, buf.LineCount())

	line, ok := buf.Line(2)
	require.True(t, ok)
	assert.Equal(t, "two\r", line)

	line, ok = buf.Line(3)
	require.True(t, ok)
	assert.Equal(t, "three", line)

	_, ok = buf.Line(4)
	assert.False(t, ok)

	assert.Equal(t, 1, document.New("").LineCount())
}

func TestLinesRebuiltAfterEdit(t *testing.T) {
	t.Parallel()

	buf := document.New("a\nb")
	assert.Equal(t, 2, buf.LineCount())

	buf.InsertAt(1, "\nx")
	assert.Equal(t, 3, buf.LineCount())
	assert.Equal(t, document.Pos{Line: 3, Col: 1}, buf.PosAt(4))
}
