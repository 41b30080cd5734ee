// SPDX-License-Identifier: MIT
/*
Package estimator implements the fundamental-frequency estimators and
the ordered cascade that falls back through them.

Every estimator consumes a normalized mono frame plus its sample rate
and produces an Estimate. A zero frequency always means "no pitch
found": weak signal, no periodicity and malformed buffers all collapse
into that result rather than errors.
*/
package estimator

// Estimate is the result of one estimator run on one frame. Frequency
// of zero means no pitch was found; Strength is an estimator-specific
// confidence in [0, 1].
type Estimate struct {
	Frequency float64
	Strength  float64
}

// Estimator analyzes a single frame. Implementations are stateless
// between calls: the result depends only on the samples and rate.
type Estimator interface {
	// Name identifies the estimator in detection snapshots.
	Name() string

	// Estimate returns the detected fundamental frequency, or a zero
	// Estimate when the frame carries no usable pitch.
	Estimate(samples []float64, sampleRate float64) Estimate
}

// parabolicPeak refines a discrete extremum at index i using its two
// neighbors, returning the sub-sample offset in [-1, 1]. Works for
// minima and maxima alike; a degenerate (flat) neighborhood yields 0.
func parabolicPeak(values []float64, i int) float64 {
	if i <= 0 || i >= len(values)-1 {
		return 0
	}
	prev, cur, next := values[i-1], values[i], values[i+1]
	denom := prev - 2*cur + next
	if denom == 0 {
		return 0
	}
	delta := 0.5 * (prev - next) / denom
	if delta > 1 {
		delta = 1
	} else if delta < -1 {
		delta = -1
	}
	return delta
}
