// SPDX-License-Identifier: MIT
package estimator

import "vocalpitch/internal/config"

// MinWindow is the shortest frame the cascade will analyze. Shorter
// frames short-circuit to "no pitch".
const MinWindow = config.MinBufferFrames

// Result pairs an Estimate with the name of the estimator that
// produced it.
type Result struct {
	Estimate
	Method string
}

// Cascade tries an ordered list of estimators and returns the first
// non-zero result. The order encodes an accuracy-over-cost preference,
// not a quality guarantee: no estimator's output is cross-validated
// against another.
type Cascade struct {
	estimators []Estimator
}

// NewCascade builds a cascade from the given estimators, tried in order.
func NewCascade(estimators ...Estimator) *Cascade {
	return &Cascade{estimators: estimators}
}

// DefaultCascade wires the standard YIN → autocorrelation → spectral
// chain from the detection configuration.
func DefaultCascade(cfg config.DetectionConfig) *Cascade {
	return NewCascade(
		NewYIN(cfg.YinThreshold),
		NewAutoCorrelation(cfg.MinFrequency, cfg.MaxFrequency, cfg.AmplitudeFloor, cfg.MinCorrelation),
		NewSpectral(cfg.MinFrequency, cfg.MaxFrequency, cfg.AmplitudeFloor),
	)
}

// Estimate runs the cascade on one frame. Frames shorter than
// MinWindow yield a zero Result. The last estimator's result is
// returned even when it is zero.
func (c *Cascade) Estimate(samples []float64, sampleRate float64) Result {
	if len(samples) < MinWindow {
		return Result{}
	}

	var last Result
	for _, est := range c.estimators {
		e := est.Estimate(samples, sampleRate)
		last = Result{Estimate: e, Method: est.Name()}
		if e.Frequency > 0 {
			return last
		}
	}
	return last
}
