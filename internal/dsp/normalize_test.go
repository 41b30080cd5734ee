// SPDX-License-Identifier: MIT
package dsp

import (
	"math"
	"testing"
)

func TestNormalizeSigned16(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected float64
	}{
		{"zero", 0, 0},
		{"max", 32767, 32767.0 / 32768.0},
		{"min", -32768, -1},
		{"half", 16384, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NormalizeInt([]int{tt.input}, EncodingSigned16)
			if math.Abs(out[0]-tt.expected) > 1e-12 {
				t.Errorf("NormalizeInt(%d) = %f, want %f", tt.input, out[0], tt.expected)
			}
		})
	}
}

func TestNormalizeUnsigned8(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected float64
	}{
		{"midpoint", 128, 0},
		{"max", 255, 127.0 / 128.0},
		{"min", 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NormalizeInt([]int{tt.input}, EncodingUnsigned8)
			if math.Abs(out[0]-tt.expected) > 1e-12 {
				t.Errorf("NormalizeInt(%d) = %f, want %f", tt.input, out[0], tt.expected)
			}
		})
	}
}

func TestNormalizeAlreadyNormalized(t *testing.T) {
	in := []float64{-0.5, 0, 0.25}
	out := Normalize(in, EncodingNormalized)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d changed: %f -> %f", i, in[i], out[i])
		}
	}
}

func TestNormalizeFloat32Downmix(t *testing.T) {
	// Interleaved stereo: left channel 0.5, right channel -0.5 should
	// cancel to silence.
	raw := []float32{0.5, -0.5, 0.5, -0.5}
	out := NormalizeFloat32(raw, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 mono samples, got %d", len(out))
	}
	for i, v := range out {
		if math.Abs(v) > 1e-9 {
			t.Errorf("sample %d = %f, want 0", i, v)
		}
	}
}

func TestRMS(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"silence", []float64{0, 0, 0, 0}, 0},
		{"dc", []float64{0.5, 0.5, 0.5, 0.5}, 0.5},
		{"alternating", []float64{1, -1, 1, -1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RMS(tt.input)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("RMS = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestHammingWindow(t *testing.T) {
	n := 64
	w := HammingWindow(n)
	if len(w) != n {
		t.Fatalf("window length %d, want %d", len(w), n)
	}

	// Endpoints of a Hamming window are 0.54 - 0.46 = 0.08.
	if math.Abs(w[0]-0.08) > 1e-9 || math.Abs(w[n-1]-0.08) > 1e-9 {
		t.Errorf("endpoints = %f, %f, want 0.08", w[0], w[n-1])
	}

	// Symmetric around the center.
	for i := 0; i < n/2; i++ {
		if math.Abs(w[i]-w[n-1-i]) > 1e-9 {
			t.Errorf("window not symmetric at %d: %f != %f", i, w[i], w[n-1-i])
		}
	}
}

func TestApplyWindowZeroAllocs(t *testing.T) {
	samples := make([]float64, 1024)
	window := HammingWindow(1024)
	dst := make([]float64, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		ApplyWindow(dst, samples, window)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in ApplyWindow, got %.1f", allocs)
	}
}
