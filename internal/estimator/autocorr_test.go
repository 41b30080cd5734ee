// SPDX-License-Identifier: MIT
package estimator

import (
	"math"
	"testing"

	"vocalpitch/pkg/sigtest"
)

func newTestAutoCorrelation() *AutoCorrelation {
	return NewAutoCorrelation(80, 2000, 0.01, 0.3)
}

func TestAutoCorrelationPureSine(t *testing.T) {
	tests := []struct {
		name string
		freq float64
	}{
		{"A3", 220},
		{"A4", 440},
		{"A5", 880},
	}

	ac := newTestAutoCorrelation()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := sigtest.Sine(testWindow, testSampleRate, tt.freq, 0.8)
			e := ac.Estimate(samples, testSampleRate)
			if math.Abs(e.Frequency-tt.freq) > 1.0 {
				t.Errorf("Estimate = %.3f Hz, want %.1f ± 1.0", e.Frequency, tt.freq)
			}
		})
	}
}

func TestAutoCorrelationSilenceGate(t *testing.T) {
	ac := newTestAutoCorrelation()

	// Quiet but periodic signal below the RMS floor is silence.
	quiet := sigtest.Sine(testWindow, testSampleRate, 440, 0.005)
	if e := ac.Estimate(quiet, testSampleRate); e.Frequency != 0 {
		t.Errorf("sub-floor signal produced %.3f Hz, want 0", e.Frequency)
	}

	if e := ac.Estimate(make([]float64, testWindow), testSampleRate); e.Frequency != 0 {
		t.Errorf("silence produced %.3f Hz, want 0", e.Frequency)
	}
}

func TestAutoCorrelationVolumeIndependent(t *testing.T) {
	ac := newTestAutoCorrelation()
	loud := ac.Estimate(sigtest.Sine(testWindow, testSampleRate, 330, 0.9), testSampleRate)
	quiet := ac.Estimate(sigtest.Sine(testWindow, testSampleRate, 330, 0.05), testSampleRate)
	if math.Abs(loud.Frequency-quiet.Frequency) > 0.5 {
		t.Errorf("frequency depends on amplitude: loud %.3f vs quiet %.3f",
			loud.Frequency, quiet.Frequency)
	}
}

func TestAutoCorrelationRejectsNoise(t *testing.T) {
	// Audible but aperiodic input must stay below the confidence floor.
	ac := newTestAutoCorrelation()
	samples := sigtest.Noise(testWindow, 0.5)
	if e := ac.Estimate(samples, testSampleRate); e.Frequency != 0 {
		t.Errorf("noise produced %.3f Hz, want 0", e.Frequency)
	}
}

func BenchmarkAutoCorrelation(b *testing.B) {
	ac := newTestAutoCorrelation()
	samples := sigtest.VoiceLike(testWindow, testSampleRate, 220)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ac.Estimate(samples, testSampleRate)
	}
}
