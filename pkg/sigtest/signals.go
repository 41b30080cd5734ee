// SPDX-License-Identifier: MIT
// Package sigtest generates deterministic test signals shared by the
// estimator and detection tests.
package sigtest

import (
	"math"
	"math/rand"
)

// Sine returns size samples of a pure sine wave.
func Sine(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = amplitude * math.Sin(2*math.Pi*frequency*t)
	}
	return buffer
}

// VoiceLike returns a fundamental with two decaying harmonics, the
// shape sung vowels tend to have.
func VoiceLike(size int, sampleRate, fundamental float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*fundamental*t)*0.5 +
			math.Sin(2*math.Pi*2*fundamental*t)*0.3 +
			math.Sin(2*math.Pi*3*fundamental*t)*0.2
	}
	return buffer
}

// Noise returns seeded uniform noise in [-amplitude, amplitude].
// The fixed seed keeps failures reproducible.
func Noise(size int, amplitude float64) []float64 {
	rng := rand.New(rand.NewSource(42))
	buffer := make([]float64, size)
	for i := range buffer {
		buffer[i] = amplitude * (2*rng.Float64() - 1)
	}
	return buffer
}
