// SPDX-License-Identifier: MIT
package detect

import (
	"testing"

	"vocalpitch/internal/music"
)

func TestTrackerSteadyToneScoresHigh(t *testing.T) {
	tr := NewTracker(0.9)
	for i := 0; i < 5; i++ {
		tr.Observe(220, true)
	}
	if s := tr.Stability(); s < 80 {
		t.Errorf("Stability after steady tone = %.1f, want >= 80", s)
	}
	if got := tr.Smoothed(); got != 220 {
		t.Errorf("Smoothed = %.3f, want 220", got)
	}
}

func TestTrackerLatchAfterDwell(t *testing.T) {
	tr := NewTracker(0.9)

	// The first cycle scores zero (one sample has no deviation to
	// measure), so the dwell runs over cycles two through four.
	tr.Observe(220, true)
	tr.Observe(220, true)
	tr.Observe(220, true)
	if tr.StableNote() != music.NoNote {
		t.Errorf("latched %q before dwell completed", tr.StableNote())
	}

	tr.Observe(220, true)
	if tr.StableNote() != "A3" {
		t.Errorf("StableNote = %q, want A3", tr.StableNote())
	}
}

func TestTrackerUnvoicedPreservesLatch(t *testing.T) {
	tr := NewTracker(0.9)
	for i := 0; i < 5; i++ {
		tr.Observe(220, true)
	}
	latched := tr.StableNote()

	// Silence interrupts dwell but never clears the latched note or
	// the smoothed estimate.
	tr.Observe(0, false)
	tr.Observe(0, false)
	if tr.StableNote() != latched {
		t.Errorf("latch lost over silence: %q -> %q", latched, tr.StableNote())
	}
	if tr.Smoothed() != 220 {
		t.Errorf("Smoothed changed over silence: %.3f", tr.Smoothed())
	}
}

func TestTrackerJitterLowersScore(t *testing.T) {
	steady := NewTracker(0.9)
	jittery := NewTracker(0.9)
	wild := NewTracker(0.9)

	jitter := []float64{220, 224, 217, 223, 218, 225, 216, 222, 219, 224}
	for i := 0; i < len(jitter); i++ {
		steady.Observe(220, true)
		jittery.Observe(jitter[i], true)
		// Alternating octaves: far beyond maxRelDeviation.
		if i%2 == 0 {
			wild.Observe(220, true)
		} else {
			wild.Observe(440, true)
		}
	}

	if !(steady.Stability() > jittery.Stability()) {
		t.Errorf("steady %.1f should outscore jittery %.1f",
			steady.Stability(), jittery.Stability())
	}
	if wild.Stability() != 0 {
		t.Errorf("octave-jumping stream scored %.1f, want 0", wild.Stability())
	}
}

func TestTrackerSingleSampleScoresZero(t *testing.T) {
	tr := NewTracker(0.9)
	tr.Observe(220, true)
	if s := tr.Stability(); s != 0 {
		t.Errorf("Stability after one sample = %.1f, want 0", s)
	}
}

func TestTrackerSmoothingPrimedWithFirstValue(t *testing.T) {
	tr := NewTracker(0.9)
	if tr.Smoothed() != 0 {
		t.Errorf("Smoothed before any input = %.3f, want 0", tr.Smoothed())
	}

	tr.Observe(440, true)
	if tr.Smoothed() != 440 {
		t.Errorf("first estimate not used directly: %.3f", tr.Smoothed())
	}

	// 0.9*440 + 0.1*450 = 441
	tr.Observe(450, true)
	if got := tr.Smoothed(); got < 440.9 || got > 441.1 {
		t.Errorf("Smoothed = %.3f, want 441", got)
	}
}

func TestTrackerNoteChangeRestartsDwell(t *testing.T) {
	tr := NewTracker(0)

	// Two stable cycles on A3, then a clean jump to C4 (smoothing 0 so
	// the smoothed pitch follows immediately).
	tr.Observe(220, true)
	tr.Observe(220, true)
	tr.Observe(261.63, true)
	if tr.StableNote() != music.NoNote {
		t.Errorf("latched %q without completing dwell on either note", tr.StableNote())
	}
}
