// Package preview keeps the rendered preview in step with the document:
// debounced re-rendering while typing, forced renders that keep the scroll
// position, and a frozen mode that suspends automatic updates.
package preview

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpane/internal/logging"
)

// DefaultQuietPeriod is how long edits must pause before the preview
// re-renders.
const DefaultQuietPeriod = 300 * time.Millisecond

// ErrClosed is returned by ForceRender and Reload after Close.
var ErrClosed = errors.New("scheduler closed")

// SourceFunc produces the full HTML document to display.
type SourceFunc func() (string, error)

// State is the scheduler's observable state.
type State int

const (
	// StateIdle means no render is pending.
	StateIdle State = iota
	// StatePending means a debounced render is waiting for its timer.
	StatePending
	// StateFrozen means automatic renders are suspended.
	StateFrozen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats counts scheduler activity.
type Stats struct {
	// Scheduled is the number of debounced renders started, superseded
	// ones included.
	Scheduled int
	// Renders is the number of successful renders.
	Renders int
	// Failures is the number of renders that returned an error or panicked.
	Failures int
}

// Options configures a Scheduler.
type Options struct {
	// Quiet is the debounce period. Zero means DefaultQuietPeriod.
	Quiet time.Duration

	// RestoreDelay is the scroll restore delay after a forced render.
	// Zero means DefaultRestoreDelay.
	RestoreDelay time.Duration

	// Frozen starts the scheduler with automatic renders suspended.
	Frozen bool

	// Clock creates timers. Nil means SystemClock.
	Clock Clock

	// Logger receives render failures. Nil means logging.Default().
	Logger *log.Logger
}

// Scheduler decides when the preview is rendered.
//
// Edits arm a single debounce timer; each edit replaces the previous timer,
// so a burst of edits produces one render after the quiet period. A forced
// render happens at once, frozen or not, and restores the previous scroll
// position. Timer callbacks that were superseded are discarded.
//
// Scheduler is safe for concurrent use. Renders never overlap.
type Scheduler struct {
	source  SourceFunc
	surface Surface
	clock   Clock
	quiet   time.Duration
	logger  *log.Logger
	scroll  *Sync

	mu     sync.Mutex
	timer  Timer
	gen    uint64
	frozen bool
	closed bool
	stats  Stats

	renderMu sync.Mutex
}

// NewScheduler returns an idle (or frozen) scheduler rendering source into
// surface.
func NewScheduler(source SourceFunc, surface Surface, opts Options) *Scheduler {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	quiet := opts.Quiet
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	logger := logging.OrDefault(opts.Logger)

	return &Scheduler{
		source:  source,
		surface: surface,
		clock:   clock,
		quiet:   quiet,
		logger:  logger,
		scroll:  NewSync(clock, opts.RestoreDelay, logger),
		frozen:  opts.Frozen,
	}
}

// OnEdit notes a document change. Unless frozen, it (re)starts the debounce
// timer.
func (s *Scheduler) OnEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.frozen {
		return
	}
	s.scheduleLocked()
}

// ForceRender cancels any pending render and renders now, keeping the
// preview scroll position. It renders even while frozen.
func (s *Scheduler) ForceRender() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.cancelLocked()
	s.mu.Unlock()

	return s.render(true, true)
}

// Reload renders a replaced document now. It cancels any pending render and
// any outstanding scroll restoration, and leaves the new document's scroll
// position alone. It renders even while frozen.
func (s *Scheduler) Reload() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.cancelLocked()
	s.mu.Unlock()

	s.scroll.Cancel()
	return s.render(true, false)
}

// SetFrozen suspends or resumes automatic renders. Resuming schedules a
// render so the preview catches up with edits made while frozen.
func (s *Scheduler) SetFrozen(frozen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.frozen == frozen {
		return
	}
	s.frozen = frozen

	if frozen {
		s.cancelLocked()
	} else {
		s.scheduleLocked()
	}
	s.logger.Debug("preview freeze changed", logging.FieldFrozen, frozen)
}

// Frozen reports whether automatic renders are suspended.
func (s *Scheduler) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// Pending reports whether a debounced render is waiting.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// State returns the current state. Frozen takes precedence.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.frozen:
		return StateFrozen
	case s.timer != nil:
		return StatePending
	default:
		return StateIdle
	}
}

// Stats returns a copy of the activity counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close cancels pending renders and scroll restorations. Later edits and
// timer callbacks are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.cancelLocked()
	s.closed = true
	s.mu.Unlock()

	s.scroll.Close()
}

func (s *Scheduler) scheduleLocked() {
	s.cancelLocked()

	gen := s.gen
	s.stats.Scheduled++
	s.timer = s.clock.AfterFunc(s.quiet, func() {
		s.fire(gen)
	})
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	// Failures are counted and logged by render.
	_ = s.render(false, false)
}

func (s *Scheduler) render(forced, keepScroll bool) error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	start := time.Now()

	var snap ScrollSnapshot
	if keepScroll {
		snap = s.scroll.Capture(s.surface)
	}

	err := s.renderOnce()

	s.mu.Lock()
	if err != nil {
		s.stats.Failures++
	} else {
		s.stats.Renders++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("preview render failed",
			logging.FieldForced, forced,
			logging.FieldError, err,
		)
		return err
	}

	if keepScroll {
		s.scroll.Restore(s.surface, snap)
	}

	s.logger.Debug("preview rendered",
		logging.FieldForced, forced,
		logging.FieldDuration, time.Since(start),
	)
	return nil
}

func (s *Scheduler) renderOnce() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	html, err := s.source()
	if err != nil {
		return fmt.Errorf("render source: %w", err)
	}
	if err := s.surface.LoadHTML(html); err != nil {
		return fmt.Errorf("load preview: %w", err)
	}
	return nil
}
