// Package textdiff computes line-level unified diffs, used to preview
// replacements before they are written.
package textdiff

import (
	"fmt"
	"strings"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// Kind classifies a diff line.
type Kind int

const (
	Context Kind = iota
	Added
	Removed
)

// Line is one line of a hunk, without its prefix or newline.
type Line struct {
	Kind Kind
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Diff is the set of hunks turning one text into another.
type Diff struct {
	Path    string
	Hunks   []Hunk
	Added   int
	Removed int
}

// Empty reports whether the texts were identical.
func (d *Diff) Empty() bool {
	return d == nil || len(d.Hunks) == 0
}

// Compute diffs before against after, keeping context unchanged lines around
// each change. Hunks whose context would overlap are joined.
func Compute(path, before, after string, context int) *Diff {
	if context < 0 {
		context = 0
	}

	d := &Diff{Path: path}
	if before == after {
		return d
	}

	ops := align(split(before), split(after))
	for _, op := range ops {
		switch op.Kind {
		case Added:
			d.Added++
		case Removed:
			d.Removed++
		}
	}
	d.Hunks = group(ops, context)
	return d
}

// String renders the diff in unified format.
func (d *Diff) String() string {
	if d.Empty() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", d.Path, d.Path)
	for _, h := range d.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')
		for _, l := range h.Lines {
			b.WriteString(l.Prefix())
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Header returns the "@@ -a,b +c,d @@" line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// Prefix returns the unified diff marker for the line.
func (l Line) Prefix() string {
	switch l.Kind {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return " "
	}
}

// split breaks text into lines; a final newline does not start a new line.
func split(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// align walks a longest-common-subsequence table to produce the edit
// script. Removals come before additions within a change.
func align(a, b []string) []Line {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]Line, 0, len(a)+len(b))
	var pending []Line // additions held back until the removals are out
	flush := func() {
		ops = append(ops, pending...)
		pending = pending[:0]
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			flush()
			ops = append(ops, Line{Kind: Context, Text: a[i]})
			i++
			j++
		case j < len(b) && (i == len(a) || lcs[i][j+1] >= lcs[i+1][j]):
			pending = append(pending, Line{Kind: Added, Text: b[j]})
			j++
		default:
			ops = append(ops, Line{Kind: Removed, Text: a[i]})
			i++
		}
	}
	flush()

	return ops
}

// group cuts the edit script into hunks. Changes separated by at most
// 2*context unchanged lines share a hunk.
func group(ops []Line, context int) []Hunk {
	var hunks []Hunk

	oldLine, newLine := 1, 1
	var cur *Hunk
	trailing := 0 // context lines since the last change in cur

	for idx, op := range ops {
		if op.Kind == Context {
			if cur != nil {
				run, changeFollows := contextRun(ops, idx)
				if trailing < context || (changeFollows && trailing+run <= 2*context) {
					cur.Lines = append(cur.Lines, op)
					cur.OldCount++
					cur.NewCount++
					trailing++
				} else {
					hunks = append(hunks, *cur)
					cur = nil
				}
			}
			oldLine++
			newLine++
			continue
		}

		if cur == nil {
			lead := leadingContext(ops, idx, context)
			cur = &Hunk{
				OldStart: oldLine - len(lead),
				NewStart: newLine - len(lead),
				OldCount: len(lead),
				NewCount: len(lead),
				Lines:    lead,
			}
		}
		cur.Lines = append(cur.Lines, op)
		trailing = 0
		if op.Kind == Removed {
			cur.OldCount++
			oldLine++
		} else {
			cur.NewCount++
			newLine++
		}
	}
	if cur != nil {
		hunks = append(hunks, *cur)
	}

	for i := range hunks {
		fixEmptyStart(&hunks[i])
	}
	return hunks
}

// contextRun counts the unchanged lines from ops[idx] up to the next change
// and reports whether there is one.
func contextRun(ops []Line, idx int) (int, bool) {
	n := 0
	for k := idx; k < len(ops); k++ {
		if ops[k].Kind != Context {
			return n, true
		}
		n++
	}
	return n, false
}

// leadingContext returns up to n context lines directly before ops[idx].
func leadingContext(ops []Line, idx, n int) []Line {
	start := idx
	for start > 0 && idx-start < n && ops[start-1].Kind == Context {
		start--
	}
	return append([]Line(nil), ops[start:idx]...)
}

// fixEmptyStart follows the unified format convention: an empty side starts
// at the line before the hunk.
func fixEmptyStart(h *Hunk) {
	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
}
