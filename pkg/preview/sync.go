package preview

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdpane/internal/logging"
)

// DefaultRestoreDelay is how long after a reload the scroll position is
// restored, giving the surface time to lay out the new document.
const DefaultRestoreDelay = 100 * time.Millisecond

// ScrollSnapshot is a normalized vertical scroll position. OK is false when
// the surface could not report one.
type ScrollSnapshot struct {
	Fraction float64
	OK       bool
}

// Sync carries the preview scroll position across reloads. At most one
// restoration is outstanding.
type Sync struct {
	clock  Clock
	delay  time.Duration
	logger *log.Logger

	mu     sync.Mutex
	timer  Timer
	gen    uint64
	closed bool
}

// NewSync returns a Sync that restores after delay. A zero delay uses
// DefaultRestoreDelay; a nil clock uses SystemClock.
func NewSync(clock Clock, delay time.Duration, logger *log.Logger) *Sync {
	if clock == nil {
		clock = SystemClock{}
	}
	if delay <= 0 {
		delay = DefaultRestoreDelay
	}
	return &Sync{
		clock:  clock,
		delay:  delay,
		logger: logging.OrDefault(logger),
	}
}

// Capture reads the current scroll fraction of surface, clamped to [0, 1].
func (s *Sync) Capture(surface Surface) ScrollSnapshot {
	fraction, ok := surface.ScrollFraction()
	if !ok {
		return ScrollSnapshot{}
	}
	return ScrollSnapshot{Fraction: clampFraction(fraction), OK: true}
}

// Restore schedules the snapshot to be applied to surface after the restore
// delay, replacing any restoration still outstanding. Snapshots that are
// unavailable or at the top are not restored.
func (s *Sync) Restore(surface Surface, snap ScrollSnapshot) {
	if !snap.OK || snap.Fraction <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.cancelLocked()

	gen := s.gen
	fraction := clampFraction(snap.Fraction)
	s.timer = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.closed || gen != s.gen {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()

		s.bestEffort(surface, fraction)
	})
}

// Cancel drops an outstanding restoration.
func (s *Sync) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Close cancels any outstanding restoration and ignores later ones.
func (s *Sync) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.closed = true
}

func (s *Sync) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Sync) bestEffort(surface Surface, fraction float64) {
	if err := surface.SetScrollFraction(fraction); err != nil {
		s.logger.Debug("scroll restore failed",
			logging.FieldFraction, fraction,
			logging.FieldError, err,
		)
	}
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0 || math.IsNaN(f):
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
