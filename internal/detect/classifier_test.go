// SPDX-License-Identifier: MIT
package detect

import (
	"testing"

	"vocalpitch/internal/config"
)

func TestClassifierVoiced(t *testing.T) {
	c := NewClassifier(config.NewConfig().Detection)

	tests := []struct {
		name      string
		freq      float64
		amplitude float64
		voiced    bool
	}{
		{"typical voice", 220, 0.1, true},
		{"no pitch", 0, 0.1, false},
		{"negative pitch", -100, 0.1, false},
		{"below range", 79, 0.1, false},
		{"at lower bound", 80, 0.1, false},
		{"just above lower bound", 80.1, 0.1, true},
		{"at upper bound", 2000, 0.1, false},
		{"above range", 2500, 0.1, false},
		{"silent", 220, 0, false},
		{"at amplitude floor", 220, 0.01, false},
		{"just above floor", 220, 0.011, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Voiced(tt.freq, tt.amplitude); got != tt.voiced {
				t.Errorf("Voiced(%.1f, %.3f) = %v, want %v", tt.freq, tt.amplitude, got, tt.voiced)
			}
		})
	}
}

func TestClassifierAmplitudeIndependentOfPitch(t *testing.T) {
	// The amplitude gate must be the same at every frequency: loudness
	// is never a proxy for pitch quality.
	c := NewClassifier(config.NewConfig().Detection)
	for _, freq := range []float64{100, 220, 440, 880, 1500} {
		if c.Voiced(freq, 0.005) {
			t.Errorf("quiet signal at %.0f Hz classified voiced", freq)
		}
		if !c.Voiced(freq, 0.5) {
			t.Errorf("loud in-range signal at %.0f Hz classified unvoiced", freq)
		}
	}
}
