// Package editor ties the document, the find bar, the preview pipeline,
// styles, zoom and locale together for one open document. It is the core a
// GUI or command-line host drives.
package editor

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpane/internal/logging"
	"github.com/yaklabco/mdpane/pkg/document"
	"github.com/yaklabco/mdpane/pkg/export"
	"github.com/yaklabco/mdpane/pkg/fsutil"
	"github.com/yaklabco/mdpane/pkg/locale"
	"github.com/yaklabco/mdpane/pkg/preview"
	"github.com/yaklabco/mdpane/pkg/render"
	"github.com/yaklabco/mdpane/pkg/search"
	"github.com/yaklabco/mdpane/pkg/style"
	"github.com/yaklabco/mdpane/pkg/zoom"
)

// Options configures an Editor. The zero value is usable: it renders GFM
// with the built-in style into a surface that discards output.
type Options struct {
	Surface  preview.Surface
	Clock    preview.Clock
	Renderer *render.Renderer
	Style    *style.Profile
	Zoom     *zoom.Level
	Locale   *locale.Service
	Backups  fsutil.BackupConfig

	Quiet        time.Duration
	RestoreDelay time.Duration
	Frozen       bool

	PDFTool   string
	Clipboard export.ClipboardFunc
	Logger    *log.Logger
}

// Editor is safe for concurrent use. Document and find state are guarded
// by one mutex; preview renders run outside it.
type Editor struct {
	mu     sync.Mutex
	buf    *document.Buffer
	find   *search.Session
	style  style.Profile
	status string
	file   fileState

	zoom     *zoom.Level
	locale   *locale.Service
	renderer *render.Renderer
	backups  fsutil.BackupConfig
	pdf      *export.PDF
	clip     export.ClipboardFunc
	logger   *log.Logger

	sched       *preview.Scheduler
	unsubscribe func()
}

// New returns an editor holding text as an unsaved document.
func New(text string, opts Options) *Editor {
	logger := logging.OrDefault(opts.Logger)

	e := &Editor{
		buf:      document.New(text),
		style:    style.Default(),
		zoom:     opts.Zoom,
		locale:   opts.Locale,
		renderer: opts.Renderer,
		backups:  opts.Backups,
		pdf:      export.NewPDF(opts.PDFTool, logger),
		clip:     opts.Clipboard,
		logger:   logger,
	}
	e.file.saved = text

	if opts.Style != nil {
		e.style = *opts.Style
	}
	if e.zoom == nil {
		e.zoom = zoom.New(zoom.DefaultEditor, zoom.DefaultPreview)
	}
	if e.locale == nil {
		e.locale = locale.New(locale.Fallback)
	}
	if e.renderer == nil {
		e.renderer = render.New(render.Options{Flavor: render.FlavorGFM, DetectLanguages: true})
	}

	surface := opts.Surface
	if surface == nil {
		surface = discardSurface{}
	}

	e.find = search.NewSession(e.buf, e.locale)
	e.sched = preview.NewScheduler(e.previewSource, surface, preview.Options{
		Quiet:        opts.Quiet,
		RestoreDelay: opts.RestoreDelay,
		Frozen:       opts.Frozen,
		Clock:        opts.Clock,
		Logger:       logger,
	})
	e.status = e.locale.T("status.ready")
	e.unsubscribe = e.locale.Subscribe(func(string) {
		e.mu.Lock()
		e.status = e.locale.T("status.ready")
		e.mu.Unlock()
	})

	return e
}

// Close stops the preview pipeline and detaches from the locale service.
func (e *Editor) Close() {
	e.sched.Close()
	e.unsubscribe()
}

// Text returns the document text.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// Cursor returns the cursor offset.
func (e *Editor) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Cursor()
}

// SetCursor moves the cursor.
func (e *Editor) SetCursor(offset int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetCursor(offset)
}

// Select selects [start, end).
func (e *Editor) Select(start, end int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetSelection(start, end)
}

// Highlights returns the ranges carrying tag, for hosts drawing the find
// highlights.
func (e *Editor) Highlights(tag string) []document.Range {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.TagRanges(tag)
}

// Position returns the 1-based line and column of offset.
func (e *Editor) Position(offset int) document.Pos {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.PosAt(offset)
}

// Line returns the content of a 1-based line without its newline.
func (e *Editor) Line(line int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Line(line)
}

// Insert inserts text at offset.
func (e *Editor) Insert(offset int, text string) {
	e.edit(func(b *document.Buffer) { b.InsertAt(offset, text) })
}

// Delete removes [start, end).
func (e *Editor) Delete(start, end int) {
	e.edit(func(b *document.Buffer) { b.DeleteRange(start, end) })
}

// Replace replaces [start, end) with text.
func (e *Editor) Replace(start, end int, text string) {
	e.edit(func(b *document.Buffer) { b.Replace(start, end, text) })
}

// SetText replaces the whole document, keeping the file association.
func (e *Editor) SetText(text string) {
	e.edit(func(b *document.Buffer) { b.SetText(text) })
}

// edit applies fn, re-runs the find query over the new text and lets the
// preview know.
func (e *Editor) edit(fn func(b *document.Buffer)) {
	e.mu.Lock()
	fn(e.buf)
	e.find.Refresh()
	e.mu.Unlock()

	e.sched.OnEdit()
}

// Status returns the last status message, in the active language.
func (e *Editor) Status() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Editor) setStatusLocked(key string, kv ...any) {
	e.status = e.locale.T(key, kv...)
}

// Locale returns the locale service.
func (e *Editor) Locale() *locale.Service {
	return e.locale
}

// SetLanguage switches the interface language.
func (e *Editor) SetLanguage(code string) bool {
	return e.locale.SetLanguage(code)
}

type discardSurface struct{}

func (discardSurface) LoadHTML(string) error { return nil }

func (discardSurface) ScrollFraction() (float64, bool) { return 0, false }

func (discardSurface) SetScrollFraction(float64) error { return nil }
