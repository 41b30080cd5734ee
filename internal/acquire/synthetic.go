// SPDX-License-Identifier: MIT
package acquire

import (
	"fmt"
	"math"
	"sync"
	"time"

	"vocalpitch/internal/dsp"
)

// Synthetic generates a steady sine wave, phase-continuous across
// frames. It backs the simulate CLI mode and deterministic tests.
type Synthetic struct {
	Frequency  float64
	Amplitude  float64
	SampleRate float64
	FrameLen   int
	Interval   time.Duration

	mu      sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewSynthetic returns a generator producing frames of frameLen
// samples every interval.
func NewSynthetic(freq, amplitude, sampleRate float64, frameLen int, interval time.Duration) *Synthetic {
	return &Synthetic{
		Frequency:  freq,
		Amplitude:  amplitude,
		SampleRate: sampleRate,
		FrameLen:   frameLen,
		Interval:   interval,
	}
}

// Start implements Adapter. The generator always has waveform
// capability.
func (s *Synthetic) Start(sink Sink) (Capability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return CapabilityWaveform, fmt.Errorf("synthetic adapter already started")
	}
	s.done = make(chan struct{})
	s.running = true

	done := s.done
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		phase := 0.0
		step := 2 * math.Pi * s.Frequency / s.SampleRate
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				samples := make([]float64, s.FrameLen)
				for i := range samples {
					samples[i] = s.Amplitude * math.Sin(phase)
					phase += step
				}
				// keep the phase accumulator bounded
				phase = math.Mod(phase, 2*math.Pi)
				sink.OnFrame(dsp.Frame{Samples: samples, SampleRate: s.SampleRate})
			}
		}
	}()

	return CapabilityWaveform, nil
}

// Stop implements Adapter. Safe to call when not running.
func (s *Synthetic) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	close(s.done)
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}
