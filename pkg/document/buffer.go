// Package document implements the editable text model behind the editor pane.
//
// Offsets are 0-based rune offsets into the document. Ranges are half-open:
// [Start, End). Out-of-range offsets are clamped to the document bounds,
// the way a text widget clamps its indices.
package document

// Range is a half-open rune range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range covers no runes.
func (r Range) Empty() bool {
	return r.Start >= r.End
}

// Buffer owns the document text, the cursor, the selection and the named
// highlight tags applied over it.
//
// Buffer is not safe for concurrent use.
type Buffer struct {
	runes   []rune
	lines   []int // rune offset of each line start; nil when stale
	version uint64

	cursor    int
	selection Range
	hasSel    bool

	tags       map[string][]Range
	scrollTo   int
	scrollSeen bool
}

// New creates a buffer holding text with the cursor at the start.
func New(text string) *Buffer {
	return &Buffer{
		runes: []rune(text),
		tags:  make(map[string][]Range),
	}
}

// Text returns the full document text.
func (b *Buffer) Text() string {
	return string(b.runes)
}

// Len returns the document length in runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Version is incremented on every mutation. Search state records the
// version it was computed against to detect stale matches.
func (b *Buffer) Version() uint64 {
	return b.version
}

// Slice returns the text covered by [start, end).
func (b *Buffer) Slice(start, end int) string {
	r := b.clampRange(start, end)
	return string(b.runes[r.Start:r.End])
}

// SetText replaces the whole document. Cursor, selection and tags are reset.
func (b *Buffer) SetText(text string) {
	b.runes = []rune(text)
	b.cursor = 0
	b.hasSel = false
	b.selection = Range{}
	b.tags = make(map[string][]Range)
	b.touch()
}

// InsertAt inserts text at offset and returns the offset just past the
// inserted text.
func (b *Buffer) InsertAt(offset int, text string) int {
	offset = b.clamp(offset)
	ins := []rune(text)
	if len(ins) == 0 {
		return offset
	}

	out := make([]rune, 0, len(b.runes)+len(ins))
	out = append(out, b.runes[:offset]...)
	out = append(out, ins...)
	out = append(out, b.runes[offset:]...)
	b.runes = out

	n := len(ins)
	b.cursor = shiftForInsert(b.cursor, offset, n, true)
	if b.hasSel {
		b.selection = Range{
			Start: shiftForInsert(b.selection.Start, offset, n, true),
			End:   shiftForInsert(b.selection.End, offset, n, false),
		}
	}
	b.shiftTagsForInsert(offset, n)
	b.touch()

	return offset + n
}

// DeleteRange removes the text in [start, end).
func (b *Buffer) DeleteRange(start, end int) {
	r := b.clampRange(start, end)
	if r.Empty() {
		return
	}

	b.runes = append(b.runes[:r.Start:r.Start], b.runes[r.End:]...)

	b.cursor = shiftForDelete(b.cursor, r)
	if b.hasSel {
		b.selection = Range{
			Start: shiftForDelete(b.selection.Start, r),
			End:   shiftForDelete(b.selection.End, r),
		}
		if b.selection.Empty() {
			b.hasSel = false
		}
	}
	b.shiftTagsForDelete(r)
	b.touch()
}

// Replace deletes [start, end) and inserts text at start.
func (b *Buffer) Replace(start, end int, text string) int {
	r := b.clampRange(start, end)
	b.DeleteRange(r.Start, r.End)
	return b.InsertAt(r.Start, text)
}

// Cursor returns the insertion cursor offset.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// SetCursor moves the insertion cursor.
func (b *Buffer) SetCursor(offset int) {
	b.cursor = b.clamp(offset)
}

// Selection returns the current selection, if any.
func (b *Buffer) Selection() (Range, bool) {
	return b.selection, b.hasSel
}

// SetSelection selects [start, end). An empty range clears the selection.
func (b *Buffer) SetSelection(start, end int) {
	r := b.clampRange(start, end)
	if r.Empty() {
		b.ClearSelection()
		return
	}
	b.selection = r
	b.hasSel = true
}

// ClearSelection drops the selection without touching the text.
func (b *Buffer) ClearSelection() {
	b.selection = Range{}
	b.hasSel = false
}

// SelectedText returns the selected text, or "" without a selection.
func (b *Buffer) SelectedText() string {
	if !b.hasSel {
		return ""
	}
	return string(b.runes[b.selection.Start:b.selection.End])
}

// ScrollIntoView records a request to make offset visible. Hosts with a real
// viewport read it back with ScrollTarget.
func (b *Buffer) ScrollIntoView(offset int) {
	b.scrollTo = b.clamp(offset)
	b.scrollSeen = true
}

// ScrollTarget returns the last offset passed to ScrollIntoView.
func (b *Buffer) ScrollTarget() (int, bool) {
	return b.scrollTo, b.scrollSeen
}

func (b *Buffer) touch() {
	b.version++
	b.lines = nil
}

func (b *Buffer) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(b.runes) {
		return len(b.runes)
	}
	return offset
}

func (b *Buffer) clampRange(start, end int) Range {
	start, end = b.clamp(start), b.clamp(end)
	if end < start {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// shiftForInsert moves pos past an insertion of n runes at offset.
// A position sitting exactly at offset moves only when sticky is set.
func shiftForInsert(pos, offset, n int, sticky bool) int {
	if pos > offset || (sticky && pos == offset) {
		return pos + n
	}
	return pos
}

// shiftForDelete maps pos across the removal of r.
func shiftForDelete(pos int, r Range) int {
	switch {
	case pos <= r.Start:
		return pos
	case pos < r.End:
		return r.Start
	default:
		return pos - r.Len()
	}
}
