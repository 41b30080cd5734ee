// SPDX-License-Identifier: MIT
/*
Package dsp implements the signal conditioning stage of the detection
pipeline: sample normalization, windowing and energy measurement.

Buffers flow through exactly once per analysis cycle. Malformed input
(empty or single-sample buffers) is never an error here; downstream
estimators treat such frames as "no signal".
*/
package dsp

import "math"

// Encoding identifies the sample encoding of a raw capture buffer.
type Encoding string

const (
	EncodingSigned16   Encoding = "signed-16"
	EncodingUnsigned8  Encoding = "unsigned-8"
	EncodingNormalized Encoding = "already-normalized"
)

// Frame is one analysis window of normalized mono samples. Frames are
// owned by the cycle that consumes them and never mutated afterwards.
type Frame struct {
	Samples    []float64
	SampleRate float64
}

// Normalize converts raw sample values into the canonical signed
// [-1, 1] float range according to the declared encoding. Unknown
// encodings pass through unchanged.
func Normalize(raw []float64, enc Encoding) []float64 {
	out := make([]float64, len(raw))
	switch enc {
	case EncodingSigned16:
		for i, v := range raw {
			out[i] = v / 32768.0
		}
	case EncodingUnsigned8:
		for i, v := range raw {
			out[i] = (v - 128.0) / 128.0
		}
	default:
		copy(out, raw)
	}
	return out
}

// NormalizeInt converts integer PCM samples straight into normalized
// floats. Used by the WAV acquisition path, which decodes to ints.
func NormalizeInt(raw []int, enc Encoding) []float64 {
	out := make([]float64, len(raw))
	switch enc {
	case EncodingSigned16:
		for i, v := range raw {
			out[i] = float64(v) / 32768.0
		}
	case EncodingUnsigned8:
		for i, v := range raw {
			out[i] = (float64(v) - 128.0) / 128.0
		}
	default:
		for i, v := range raw {
			out[i] = float64(v)
		}
	}
	return out
}

// NormalizeFloat32 widens an already normalized float32 capture buffer,
// downmixing interleaved channels to mono by averaging.
func NormalizeFloat32(raw []float32, channels int) []float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(raw) / channels
	out := make([]float64, frames)
	if channels == 1 {
		for i, v := range raw {
			out[i] = float64(v)
		}
		return out
	}
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(raw[i*channels+ch])
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// RMS returns the root-mean-square energy of the samples. An empty
// buffer has zero energy.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
