// SPDX-License-Identifier: MIT
package detect

import (
	"gonum.org/v1/gonum/stat"

	"vocalpitch/internal/music"
)

const (
	// historyLen is the number of recent raw voiced estimates used for
	// the stability score (~1s at the default 100ms cadence).
	historyLen = 10

	// stableThreshold and stableDwell gate the note latch: stability
	// must stay at or above the threshold for this many consecutive
	// voiced cycles of the same note before it is held.
	stableThreshold = 60.0
	stableDwell     = 3

	// maxRelDeviation is the coefficient of variation at which the
	// stability score bottoms out at zero.
	maxRelDeviation = 0.1
)

// Tracker smooths the frame-to-frame pitch stream, scores its
// stability and latches the last note that was held stably. One
// Tracker exists per capture session; state never leaks across
// sessions.
type Tracker struct {
	smoothing float64

	smoothed float64
	primed   bool

	history []float64
	pos     int
	count   int

	stability  float64
	dwellNote  string
	dwellCount int
	stableNote string
}

// NewTracker returns a tracker with the given exponential smoothing
// factor (0.9 by default: 90% previous estimate, 10% new).
func NewTracker(smoothing float64) *Tracker {
	return &Tracker{
		smoothing:  smoothing,
		history:    make([]float64, historyLen),
		stableNote: music.NoNote,
	}
}

// Observe feeds one analysis cycle into the tracker. Only voiced
// windows move the smoothed pitch and the stability score; unvoiced
// windows interrupt the latch dwell but preserve both the smoothed
// estimate and the latched note.
func (t *Tracker) Observe(rawHz float64, voiced bool) {
	if !voiced || rawHz <= 0 {
		t.dwellCount = 0
		t.dwellNote = ""
		return
	}

	if !t.primed {
		t.smoothed = rawHz
		t.primed = true
	} else {
		t.smoothed = t.smoothing*t.smoothed + (1-t.smoothing)*rawHz
	}

	t.history[t.pos] = rawHz
	t.pos = (t.pos + 1) % len(t.history)
	if t.count < len(t.history) {
		t.count++
	}

	t.stability = t.score()
	t.updateLatch()
}

// score maps the relative deviation of recent raw estimates to a
// 0-100 percentage: zero jitter scores 100, jitter at or beyond
// maxRelDeviation scores 0, monotonically in between.
func (t *Tracker) score() float64 {
	if t.count < 2 || t.smoothed <= 0 {
		return 0
	}
	dev := stat.StdDev(t.history[:t.count], nil)
	rel := dev / t.smoothed
	pct := 100 * (1 - rel/maxRelDeviation)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func (t *Tracker) updateLatch() {
	if t.stability < stableThreshold {
		t.dwellCount = 0
		t.dwellNote = ""
		return
	}
	note, _ := music.NoteFor(t.smoothed)
	name := note.String()
	if name == t.dwellNote {
		t.dwellCount++
	} else {
		t.dwellNote = name
		t.dwellCount = 1
	}
	if t.dwellCount >= stableDwell {
		t.stableNote = name
	}
}

// Smoothed returns the exponentially smoothed pitch estimate, or 0
// before the first voiced window.
func (t *Tracker) Smoothed() float64 {
	if !t.primed {
		return 0
	}
	return t.smoothed
}

// Stability returns the current 0-100 stability percentage.
func (t *Tracker) Stability() float64 { return t.stability }

// StableNote returns the latched note name, "--" until a note has
// been held stably.
func (t *Tracker) StableNote() string { return t.stableNote }
