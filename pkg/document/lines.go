package document

import "sort"

// Pos is a 1-based line and column. Columns count runes.
type Pos struct {
	Line int
	Col  int
}

// buildLines records the rune offset at which each line starts.
// Only '\n' ends a line; a '\r' before it stays part of the line content.
func buildLines(runes []rune) []int {
	starts := []int{0}
	for idx, r := range runes {
		if r == '\n' {
			starts = append(starts, idx+1)
		}
	}
	return starts
}

func (b *Buffer) lineStarts() []int {
	if b.lines == nil {
		b.lines = buildLines(b.runes)
	}
	return b.lines
}

// LineCount returns the number of lines. An empty document has one line.
func (b *Buffer) LineCount() int {
	return len(b.lineStarts())
}

// PosAt converts a rune offset to a 1-based line and column.
// Offsets outside the document are clamped.
func (b *Buffer) PosAt(offset int) Pos {
	offset = b.clamp(offset)
	starts := b.lineStarts()

	// Last line whose start is <= offset.
	idx := sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	}) - 1

	return Pos{Line: idx + 1, Col: offset - starts[idx] + 1}
}

// OffsetAt converts a 1-based line and column to a rune offset.
// Returns false when the position lies outside the document. A column one
// past the last rune of a line addresses the end of that line.
func (b *Buffer) OffsetAt(pos Pos) (int, bool) {
	starts := b.lineStarts()
	if pos.Line < 1 || pos.Line > len(starts) || pos.Col < 1 {
		return 0, false
	}

	start := starts[pos.Line-1]
	end := len(b.runes)
	if pos.Line < len(starts) {
		end = starts[pos.Line] - 1 // the '\n'
	}

	offset := start + pos.Col - 1
	if offset > end {
		return 0, false
	}
	return offset, true
}

// Line returns the content of a 1-based line without its newline.
func (b *Buffer) Line(line int) (string, bool) {
	starts := b.lineStarts()
	if line < 1 || line > len(starts) {
		return "", false
	}

	start := starts[line-1]
	end := len(b.runes)
	if line < len(starts) {
		end = starts[line] - 1
	}
	return string(b.runes[start:end]), true
}
