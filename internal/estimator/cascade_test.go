// SPDX-License-Identifier: MIT
package estimator

import (
	"math"
	"testing"

	"vocalpitch/internal/config"
	"vocalpitch/pkg/sigtest"
)

func newTestCascade() *Cascade {
	cfg := config.NewConfig()
	return DefaultCascade(cfg.Detection)
}

func TestCascadeFirstMethodWins(t *testing.T) {
	// A clean sine is resolved by YIN; the fallbacks never run.
	c := newTestCascade()
	samples := sigtest.Sine(testWindow, testSampleRate, 440, 0.8)
	r := c.Estimate(samples, testSampleRate)
	if r.Method != "yin" {
		t.Errorf("Method = %q, want %q", r.Method, "yin")
	}
	if math.Abs(r.Frequency-440) > 1.0 {
		t.Errorf("Frequency = %.3f Hz, want 440 ± 1.0", r.Frequency)
	}
}

func TestCascadeFallbackOrder(t *testing.T) {
	// A YIN that never fires forces the cascade onto the next stage.
	c := NewCascade(
		NewYIN(0), // threshold 0: CMNDF can never go below it
		NewAutoCorrelation(80, 2000, 0.01, 0.3),
	)
	samples := sigtest.Sine(testWindow, testSampleRate, 440, 0.8)
	r := c.Estimate(samples, testSampleRate)
	if r.Method != "autocorrelation" {
		t.Errorf("Method = %q, want %q", r.Method, "autocorrelation")
	}
	if math.Abs(r.Frequency-440) > 1.0 {
		t.Errorf("Frequency = %.3f Hz, want 440 ± 1.0", r.Frequency)
	}
}

func TestCascadeShortWindow(t *testing.T) {
	c := newTestCascade()
	samples := sigtest.Sine(MinWindow-1, testSampleRate, 440, 0.8)
	r := c.Estimate(samples, testSampleRate)
	if r.Frequency != 0 || r.Method != "" {
		t.Errorf("short window produced %+v, want zero Result", r)
	}
}

func TestCascadeSilenceReportsLastMethod(t *testing.T) {
	// When every stage fails, the last stage's (zero) result and name
	// are reported so callers can see what ran.
	c := newTestCascade()
	r := c.Estimate(make([]float64, testWindow), testSampleRate)
	if r.Frequency != 0 {
		t.Errorf("silence produced %.3f Hz, want 0", r.Frequency)
	}
	if r.Method != "spectral" {
		t.Errorf("Method = %q, want %q", r.Method, "spectral")
	}
}

func TestCascadeMinWindowBoundary(t *testing.T) {
	c := newTestCascade()
	samples := sigtest.Sine(MinWindow, testSampleRate, 440, 0.8)
	r := c.Estimate(samples, testSampleRate)
	if r.Frequency == 0 {
		t.Error("window of exactly MinWindow frames should be analyzed")
	}
}
