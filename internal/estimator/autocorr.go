// SPDX-License-Identifier: MIT
package estimator

import "vocalpitch/internal/dsp"

// AutoCorrelation estimates pitch from the lag of maximum normalized
// autocorrelation inside the configured frequency bounds. Cheaper than
// YIN; serves as the first fallback in the cascade.
type AutoCorrelation struct {
	MinFrequency   float64 // lower search bound (Hz)
	MaxFrequency   float64 // upper search bound (Hz)
	AmplitudeFloor float64 // RMS below this is treated as silence
	MinCorrelation float64 // best correlation below this is noise
}

// NewAutoCorrelation returns an estimator bounded to [minFreq, maxFreq].
func NewAutoCorrelation(minFreq, maxFreq, amplitudeFloor, minCorrelation float64) *AutoCorrelation {
	return &AutoCorrelation{
		MinFrequency:   minFreq,
		MaxFrequency:   maxFreq,
		AmplitudeFloor: amplitudeFloor,
		MinCorrelation: minCorrelation,
	}
}

// Name implements Estimator.
func (a *AutoCorrelation) Name() string { return "autocorrelation" }

// Estimate searches lags in [sampleRate/MaxFrequency, sampleRate/MinFrequency]
// for the maximum of sum(x[i]*x[i+lag]) / sum(x[i]^2). Frames that are
// too quiet or whose best correlation is below MinCorrelation yield a
// zero Estimate. The winning lag is refined by parabolic interpolation
// of its correlation neighborhood.
func (a *AutoCorrelation) Estimate(samples []float64, sampleRate float64) Estimate {
	n := len(samples)
	if n < 2 || sampleRate <= 0 {
		return Estimate{}
	}
	if dsp.RMS(samples) < a.AmplitudeFloor {
		return Estimate{}
	}

	minLag := int(sampleRate / a.MaxFrequency)
	maxLag := int(sampleRate / a.MinFrequency)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag >= maxLag {
		return Estimate{}
	}

	energy := 0.0
	for _, v := range samples {
		energy += v * v
	}
	if energy == 0 {
		return Estimate{}
	}

	// Correlations are kept for the whole range so the winner can be
	// refined against its neighbors afterwards.
	corr := make([]float64, maxLag-minLag+1)
	bestIdx := -1
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i < n-lag; i++ {
			sum += samples[i] * samples[i+lag]
		}
		c := sum / energy
		corr[lag-minLag] = c
		if c > bestCorr {
			bestCorr = c
			bestIdx = lag - minLag
		}
	}

	if bestIdx < 0 || bestCorr < a.MinCorrelation {
		return Estimate{}
	}

	refined := float64(minLag+bestIdx) + parabolicPeak(corr, bestIdx)
	if refined <= 0 {
		return Estimate{}
	}

	return Estimate{
		Frequency: sampleRate / refined,
		Strength:  clampUnit(bestCorr),
	}
}
