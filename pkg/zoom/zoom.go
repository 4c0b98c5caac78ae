// Package zoom tracks the editor and preview font sizes and produces the
// preview zoom stylesheet.
package zoom

import (
	"fmt"
	"sync"
)

// Size limits in pixels.
const (
	EditorMin  = 10
	EditorMax  = 36
	PreviewMin = 10
	PreviewMax = 32
	Step       = 2

	DefaultEditor  = 14
	DefaultPreview = 16
)

// Level holds the two font sizes. It is safe for concurrent use.
type Level struct {
	mu          sync.Mutex
	editor      int
	preview     int
	editorReset int
}

// New returns a Level at the given sizes, clamped to their limits. The
// editor size is also what ResetEditor returns to.
func New(editor, preview int) *Level {
	editor = clamp(editor, EditorMin, EditorMax)
	return &Level{
		editor:      editor,
		preview:     clamp(preview, PreviewMin, PreviewMax),
		editorReset: editor,
	}
}

// Editor returns the editor font size.
func (l *Level) Editor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.editor
}

// Preview returns the preview font size.
func (l *Level) Preview() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.preview
}

// EditorIn grows the editor font by one step. It reports whether the size
// changed.
func (l *Level) EditorIn() bool {
	return l.adjust(&l.editor, Step, EditorMin, EditorMax)
}

// EditorOut shrinks the editor font by one step.
func (l *Level) EditorOut() bool {
	return l.adjust(&l.editor, -Step, EditorMin, EditorMax)
}

// ResetEditor returns the editor font to its configured size.
func (l *Level) ResetEditor() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	changed := l.editor != l.editorReset
	l.editor = l.editorReset
	return changed
}

// PreviewIn grows the preview font by one step. It reports whether the
// size changed; callers re-render the preview when it did.
func (l *Level) PreviewIn() bool {
	return l.adjust(&l.preview, Step, PreviewMin, PreviewMax)
}

// PreviewOut shrinks the preview font by one step.
func (l *Level) PreviewOut() bool {
	return l.adjust(&l.preview, -Step, PreviewMin, PreviewMax)
}

// ResetPreview returns the preview font to DefaultPreview.
func (l *Level) ResetPreview() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	changed := l.preview != DefaultPreview
	l.preview = DefaultPreview
	return changed
}

// Label returns the preview size for display, e.g. "16px".
func (l *Level) Label() string {
	return fmt.Sprintf("%dpx", l.Preview())
}

// PreviewCSS returns the stylesheet that applies the preview size.
func (l *Level) PreviewCSS() string {
	return CSS(l.Preview())
}

// CSS returns the zoom stylesheet for a preview font size.
func CSS(size int) string {
	return fmt.Sprintf(`html {
    font-size: %dpx !important;
}
body {
    font-size: inherit !important;
    padding: 10px 15px !important;
    margin: 0 !important;
}
h1 { font-size: 2em !important; }
h2 { font-size: 1.5em !important; }
h3 { font-size: 1.25em !important; }
pre, code { font-size: 0.9em !important; }
`, size)
}

func (l *Level) adjust(size *int, delta, lo, hi int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := *size + delta
	if next < lo || next > hi {
		return false
	}
	*size = next
	return true
}

func clamp(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
