// SPDX-License-Identifier: MIT
package acquire

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"vocalpitch/internal/dsp"
)

// Recorder tees normalized frames into a WAV file while a session
// runs. Attach one to a Microphone before Start.
type Recorder struct {
	mu      sync.Mutex
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
	scale   float64
	closed  bool
}

// NewRecorder creates filename and prepares a mono WAV encoder for the
// given sample rate and bit depth.
func NewRecorder(filename string, sampleRate float64, bitDepth int) (*Recorder, error) {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("unsupported recording bit depth %d", bitDepth)
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording file: %w", err)
	}

	return &Recorder{
		file:    file,
		encoder: wav.NewEncoder(file, int(sampleRate), bitDepth, 1, 1),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 1,
				SampleRate:  int(sampleRate),
			},
			SourceBitDepth: bitDepth,
		},
		scale: float64(int64(1)<<(bitDepth-1)) - 1,
	}, nil
}

// Write appends one frame to the file. Errors are returned but the
// recorder stays usable; the caller decides whether to keep going.
func (r *Recorder) Write(frame dsp.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("recorder is closed")
	}

	if cap(r.buf.Data) < len(frame.Samples) {
		r.buf.Data = make([]int, len(frame.Samples))
	}
	r.buf.Data = r.buf.Data[:len(frame.Samples)]
	for i, v := range frame.Samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		r.buf.Data[i] = int(v * r.scale)
	}

	if err := r.encoder.Write(r.buf); err != nil {
		return fmt.Errorf("failed to write recording frame: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file. Idempotent.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.encoder.Close(); err != nil {
		return err
	}
	return r.file.Close()
}
