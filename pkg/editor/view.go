package editor

import (
	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/preview"
	"github.com/yaklabco/mdpane/pkg/render"
	"github.com/yaklabco/mdpane/pkg/style"
)

// previewSource renders the preview document: current text, current
// style, and the zoom stylesheet.
func (e *Editor) previewSource() (string, error) {
	e.mu.Lock()
	text := e.buf.Text()
	css := render.StyleToCSS(e.style)
	e.mu.Unlock()

	return e.renderer.Document(text, css, e.zoom.PreviewCSS())
}

// Document renders the document for export: current style, no zoom.
func (e *Editor) Document() (string, error) {
	e.mu.Lock()
	text := e.buf.Text()
	css := render.StyleToCSS(e.style)
	e.mu.Unlock()

	return e.renderer.Document(text, css, "")
}

// RefreshPreview re-renders at once, keeping the preview scroll position.
func (e *Editor) RefreshPreview() error {
	return e.sched.ForceRender()
}

// refresh forces a render whose failure is already logged by the
// scheduler.
func (e *Editor) refresh() {
	_ = e.sched.ForceRender()
}

// reload renders a replaced document from the top.
func (e *Editor) reload() {
	_ = e.sched.Reload()
}

// PreviewState returns the preview scheduler state.
func (e *Editor) PreviewState() preview.State {
	return e.sched.State()
}

// PreviewStats returns the preview render counters.
func (e *Editor) PreviewStats() preview.Stats {
	return e.sched.Stats()
}

// Style returns the active style profile.
func (e *Editor) Style() style.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style
}

// SetStyle switches the style profile and re-renders.
func (e *Editor) SetStyle(p style.Profile) {
	e.mu.Lock()
	e.style = p
	e.setStatusLocked("status.style_applied", "name", p.DisplayName())
	e.mu.Unlock()

	e.logger.Debug("style applied", logging.FieldStyle, p.DisplayName())
	e.refresh()
}

// Frozen reports whether automatic preview updates are suspended.
func (e *Editor) Frozen() bool {
	return e.sched.Frozen()
}

// SetFrozen suspends or resumes automatic preview updates.
func (e *Editor) SetFrozen(frozen bool) {
	e.sched.SetFrozen(frozen)

	e.mu.Lock()
	defer e.mu.Unlock()
	if frozen {
		e.setStatusLocked("status.preview_frozen")
	} else {
		e.setStatusLocked("status.preview_live")
	}
}

// ToggleFrozen flips the frozen flag and returns the new value.
func (e *Editor) ToggleFrozen() bool {
	frozen := !e.sched.Frozen()
	e.SetFrozen(frozen)
	return frozen
}

// PreviewZoomIn enlarges the preview font and re-renders.
func (e *Editor) PreviewZoomIn() bool {
	return e.applyZoom(e.zoom.PreviewIn())
}

// PreviewZoomOut shrinks the preview font and re-renders.
func (e *Editor) PreviewZoomOut() bool {
	return e.applyZoom(e.zoom.PreviewOut())
}

// PreviewZoomReset restores the default preview font and re-renders.
func (e *Editor) PreviewZoomReset() bool {
	return e.applyZoom(e.zoom.ResetPreview())
}

// EditorZoomIn enlarges the editor font and returns the new size.
func (e *Editor) EditorZoomIn() int {
	e.zoom.EditorIn()
	return e.zoom.Editor()
}

// EditorZoomOut shrinks the editor font and returns the new size.
func (e *Editor) EditorZoomOut() int {
	e.zoom.EditorOut()
	return e.zoom.Editor()
}

// EditorZoomReset restores the configured editor font size.
func (e *Editor) EditorZoomReset() int {
	e.zoom.ResetEditor()
	return e.zoom.Editor()
}

// FontSizes returns the editor and preview font sizes.
func (e *Editor) FontSizes() (editor, preview int) {
	return e.zoom.Editor(), e.zoom.Preview()
}

func (e *Editor) applyZoom(changed bool) bool {
	if !changed {
		return false
	}

	e.mu.Lock()
	e.setStatusLocked("status.zoom", "size", e.zoom.Label())
	e.mu.Unlock()

	e.logger.Debug("preview zoom", logging.FieldZoom, e.zoom.Preview())
	e.refresh()
	return true
}
