// SPDX-License-Identifier: MIT
package estimator

import (
	"math"

	"vocalpitch/internal/dsp"
)

// Spectral estimates pitch from the peak of a magnitude spectrum
// computed by direct discrete transform over the Hamming-windowed
// frame, restricted to the vocal-range bins. Quadratic in the window
// length and the least accurate of the three, it is the cascade's last
// resort, and the primary path on acquisition layers that only expose
// frequency-bin data.
type Spectral struct {
	MinFrequency   float64
	MaxFrequency   float64
	MagnitudeFloor float64 // normalized peak magnitude below this is noise

	// window cache, keyed by the last frame length seen
	window []float64
}

// NewSpectral returns a spectral peak estimator bounded to [minFreq, maxFreq].
func NewSpectral(minFreq, maxFreq, magnitudeFloor float64) *Spectral {
	return &Spectral{
		MinFrequency:   minFreq,
		MaxFrequency:   maxFreq,
		MagnitudeFloor: magnitudeFloor,
	}
}

// Name implements Estimator.
func (s *Spectral) Name() string { return "spectral" }

// Estimate computes magnitudes for bins covering [MinFrequency,
// MaxFrequency] (bin = freq*N/sampleRate), picks the strongest bin and
// refines it by parabolic interpolation. Magnitudes are scaled by 2/N
// so a full-scale sine lands near the window's coherent gain.
func (s *Spectral) Estimate(samples []float64, sampleRate float64) Estimate {
	n := len(samples)
	if n < 2 || sampleRate <= 0 {
		return Estimate{}
	}

	if len(s.window) != n {
		s.window = dsp.HammingWindow(n)
	}
	windowed := make([]float64, n)
	dsp.ApplyWindow(windowed, samples, s.window)

	minBin := int(s.MinFrequency * float64(n) / sampleRate)
	maxBin := int(s.MaxFrequency * float64(n) / sampleRate)
	if minBin < 1 {
		minBin = 1
	}
	if maxBin > n/2-1 {
		maxBin = n/2 - 1
	}
	if minBin >= maxBin {
		return Estimate{}
	}

	// One extra bin on each side so the peak can be interpolated.
	lo := minBin - 1
	mags := make([]float64, maxBin-lo+2)
	scale := 2.0 / float64(n)
	for bin := lo; bin <= maxBin+1; bin++ {
		omega := 2 * math.Pi * float64(bin) / float64(n)
		re, im := 0.0, 0.0
		for i, v := range windowed {
			angle := omega * float64(i)
			re += v * math.Cos(angle)
			im -= v * math.Sin(angle)
		}
		mags[bin-lo] = math.Hypot(re, im) * scale
	}

	peakIdx := minBin - lo
	peakMag := mags[peakIdx]
	for bin := minBin; bin <= maxBin; bin++ {
		if mags[bin-lo] > peakMag {
			peakMag = mags[bin-lo]
			peakIdx = bin - lo
		}
	}

	if peakMag < s.MagnitudeFloor {
		return Estimate{}
	}

	refined := float64(lo+peakIdx) + parabolicPeak(mags, peakIdx)
	return Estimate{
		Frequency: refined * sampleRate / float64(n),
		Strength:  clampUnit(peakMag),
	}
}
