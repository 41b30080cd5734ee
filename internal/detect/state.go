// SPDX-License-Identifier: MIT
/*
Package detect orchestrates the detection pipeline into a started/
stopped session: it owns the analysis cycle, classifies windows as
voiced or unvoiced, smooths the pitch stream, and publishes one
read-only DetectionState snapshot per cycle.
*/
package detect

import "vocalpitch/internal/music"

// State is the externally visible detection snapshot. It is rebuilt
// atomically once per analysis cycle; readers never observe a partial
// update.
//
// Invariants: CentsOff in [-50, 50]; StabilityPct in [0, 100];
// Note == "--" exactly when PitchHz <= 0.
type State struct {
	PitchHz        float64 `json:"pitch_hz"`
	Note           string  `json:"note"`
	CentsOff       int     `json:"cents_off"`
	Voiced         bool    `json:"voiced"`
	Detecting      bool    `json:"detecting"`
	Method         string  `json:"method"`
	StabilityPct   float64 `json:"stability_pct"`
	LastStableNote string  `json:"last_stable_note"`
}

// emptyState is the snapshot of a session with no signal.
func emptyState() State {
	return State{
		Note:           music.NoNote,
		LastStableNote: music.NoNote,
	}
}

// Publisher receives each committed snapshot. Implementations must be
// safe for use from the analysis goroutine and must not block it for
// long; see the transport package.
type Publisher interface {
	Publish(State) error
	Close() error
}
