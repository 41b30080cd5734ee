// SPDX-License-Identifier: MIT
package detect

import "vocalpitch/internal/config"

// Classifier decides per-window voiced/unvoiced. A window is voiced
// only when the cascade found a pitch, the pitch lies strictly inside
// the vocal bounds, and the signal amplitude clears the floor. The
// amplitude test is deliberately independent of frequency content:
// volume must never proxy for pitch.
type Classifier struct {
	MinFrequency   float64
	MaxFrequency   float64
	AmplitudeFloor float64
}

// NewClassifier builds a classifier from the detection configuration.
func NewClassifier(cfg config.DetectionConfig) Classifier {
	return Classifier{
		MinFrequency:   cfg.MinFrequency,
		MaxFrequency:   cfg.MaxFrequency,
		AmplitudeFloor: cfg.AmplitudeFloor,
	}
}

// Voiced reports whether a window with the given detected frequency
// and amplitude (normalized RMS, or an analogous magnitude for
// spectral-only acquisition) counts as voiced.
func (c Classifier) Voiced(freqHz, amplitude float64) bool {
	return freqHz > 0 &&
		freqHz > c.MinFrequency && freqHz < c.MaxFrequency &&
		amplitude > c.AmplitudeFloor
}
