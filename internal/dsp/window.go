// SPDX-License-Identifier: MIT
package dsp

import "math"

// HammingWindow returns the Hamming window coefficients for a window of
// length n: 0.54 - 0.46*cos(2*pi*i/(n-1)). Applied ahead of estimators
// that are sensitive to edge discontinuities; the time-domain estimators
// operate on unwindowed frames.
func HammingWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// ApplyWindow multiplies samples by the window coefficients into dst.
// dst, samples and window must share the same length.
func ApplyWindow(dst, samples, window []float64) {
	for i := range samples {
		dst[i] = samples[i] * window[i]
	}
}
