// Package previewtest provides a manual clock and a recording surface for
// testing code built on package preview.
package previewtest

import (
	"sort"
	"sync"
	"time"

	"github.com/yaklabco/mdpane/pkg/preview"
)

// FakeClock is a preview.Clock whose time only moves on Advance. Due
// callbacks run synchronously on the goroutine calling Advance.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewFakeClock returns a clock at time zero.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

// AfterFunc registers f to run once the clock has advanced by d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) preview.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &fakeTimer{clock: c, due: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop cancels the timer.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d and runs every callback that became
// due, in due order. Callbacks may register new timers; those also run if
// they fall within the advanced window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.due
		next.fired = true
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns how many timers are armed and not yet fired.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// FireStale runs the callbacks of stopped timers, imitating a timer that
// fired concurrently with its Stop. Well-behaved callers ignore them.
func (c *FakeClock) FireStale() {
	c.mu.Lock()
	var stale []*fakeTimer
	for _, t := range c.timers {
		if t.stopped && !t.fired {
			t.fired = true
			stale = append(stale, t)
		}
	}
	c.mu.Unlock()

	for _, t := range stale {
		t.f()
	}
}

func (c *FakeClock) nextDueLocked(target time.Duration) *fakeTimer {
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

// RecordingSurface is a preview.Surface that records what it is given.
type RecordingSurface struct {
	mu        sync.Mutex
	loads     []string
	sets      []float64
	fraction  float64
	scrollOK  bool
	loadErr   error
	scrollErr error
}

// NewRecordingSurface returns a surface with no scroll position available.
func NewRecordingSurface() *RecordingSurface {
	return &RecordingSurface{}
}

// LoadHTML records html, or fails with the error set by FailLoads.
func (s *RecordingSurface) LoadHTML(html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return s.loadErr
	}
	s.loads = append(s.loads, html)
	return nil
}

// ScrollFraction returns the position set by SetScroll.
func (s *RecordingSurface) ScrollFraction() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fraction, s.scrollOK
}

// SetScrollFraction records the restore request.
func (s *RecordingSurface) SetScrollFraction(fraction float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets = append(s.sets, fraction)
	if s.scrollErr != nil {
		return s.scrollErr
	}
	s.fraction = fraction
	return nil
}

// SetScroll sets the position ScrollFraction reports.
func (s *RecordingSurface) SetScroll(fraction float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fraction, s.scrollOK = fraction, ok
}

// FailLoads makes LoadHTML return err; nil restores normal behavior.
func (s *RecordingSurface) FailLoads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailScroll makes SetScrollFraction return err.
func (s *RecordingSurface) FailScroll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollErr = err
}

// Loads returns every document loaded so far.
func (s *RecordingSurface) Loads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
}

// LastLoad returns the most recent document, or "".
func (s *RecordingSurface) LastLoad() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.loads) == 0 {
		return ""
	}
	return s.loads[len(s.loads)-1]
}

// ScrollSets returns every SetScrollFraction argument.
func (s *RecordingSurface) ScrollSets() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.sets...)
}
