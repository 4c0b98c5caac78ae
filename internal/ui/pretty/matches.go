package pretty

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const (
	matchIndent   = "    "
	ellipsis      = "…"
	minLineWidth  = 20
	leadingWindow = 24 // runes kept before a match on long lines
)

// MatchLine is one search hit with the line it sits on.
type MatchLine struct {
	Line    int    // 1-based
	Col     int    // 1-based, in runes
	Length  int    // match length in runes
	Text    string // the whole line, without newline
	Current bool
}

// FormatMatch formats a hit as "path:line:col" followed by the source line
// with the match highlighted and a caret under it. The source line is cut
// to width so the match stays visible.
func (s *Styles) FormatMatch(path string, m MatchLine, width int) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), m.Line, m.Col)
	builder.WriteString("  " + s.Location.Render(location))
	if m.Current {
		builder.WriteString(" " + s.Dim.Render("(current)"))
	}
	builder.WriteString("\n")

	before, match, after, caretCol := window(m, width-len(matchIndent))

	hl := s.Match
	if m.Current {
		hl = s.Current
	}
	builder.WriteString(matchIndent)
	builder.WriteString(s.SourceLine.Render(before))
	builder.WriteString(hl.Render(match))
	builder.WriteString(s.SourceLine.Render(after))
	builder.WriteString("\n")

	builder.WriteString(matchIndent + strings.Repeat(" ", caretCol))
	builder.WriteString(s.Caret.Render("^" + strings.Repeat("~", max(0, utf8.RuneCountInString(match)-1))))
	builder.WriteString("\n")

	return builder.String()
}

// window splits the line around the match and cuts it to width runes,
// trimming the start on long lines so the match is shown. It returns the
// pieces and the rune column of the match in the output.
func window(m MatchLine, width int) (before, match, after string, col int) {
	width = max(width, minLineWidth)
	runes := []rune(strings.TrimRight(m.Text, "\r"))

	start := min(max(m.Col-1, 0), len(runes))
	end := min(start+m.Length, len(runes))

	before = string(runes[:start])
	match = string(runes[start:end])
	after = string(runes[end:])

	if start > leadingWindow && utf8.RuneCountInString(before)+m.Length > width {
		before = ellipsis + string(runes[start-leadingWindow:start])
	}
	if over := width - utf8.RuneCountInString(before); over <= 0 {
		match = truncate.StringWithTail(match, 1, "")
		after = ""
	} else {
		match = truncate.StringWithTail(match, uint(over), ellipsis)
		remain := over - utf8.RuneCountInString(match)
		after = truncate.StringWithTail(after, uint(max(remain, 0)), ellipsis)
	}

	return before, match, after, utf8.RuneCountInString(before)
}

// FormatCounter formats the "N of M" counter line.
func (s *Styles) FormatCounter(counter string) string {
	return s.Counter.Render(counter) + "\n"
}

// FormatNotes formats warnings or hints, wrapped to width.
func (s *Styles) FormatNotes(label string, notes []string, width int) string {
	if len(notes) == 0 {
		return ""
	}

	var builder strings.Builder
	prefix := label + ": "
	wrapWidth := max(width-len(prefix), minLineWidth)
	pad := strings.Repeat(" ", len(prefix))

	for _, note := range notes {
		lines := strings.Split(wordwrap.String(note, wrapWidth), "\n")
		builder.WriteString(s.Warning.Render(label) + ": " + lines[0] + "\n")
		for _, line := range lines[1:] {
			builder.WriteString(pad + line + "\n")
		}
	}

	return builder.String()
}
