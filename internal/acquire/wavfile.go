// SPDX-License-Identifier: MIT
package acquire

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-audio/wav"

	"vocalpitch/internal/dsp"
	applog "vocalpitch/internal/log"
)

// WavFile replays a recorded take through the detection pipeline,
// delivering frames of FrameLen samples paced at their real-time
// cadence. Delivery stops at end of file.
type WavFile struct {
	Path     string
	FrameLen int

	mu      sync.Mutex
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewWavFile returns an adapter reading path in windows of frameLen.
func NewWavFile(path string, frameLen int) *WavFile {
	return &WavFile{Path: path, FrameLen: frameLen}
}

// Start implements Adapter. The whole file is decoded up front; decode
// failures are fatal and reported immediately.
func (w *WavFile) Start(sink Sink) (Capability, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return CapabilityWaveform, fmt.Errorf("wav adapter already started")
	}

	file, err := os.Open(w.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("%w: %s is not a valid WAV file", ErrUnsupported, w.Path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return 0, fmt.Errorf("%w: decoding %s: %v", ErrUnsupported, w.Path, err)
	}

	sampleRate := float64(buf.Format.SampleRate)
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	// Downmix interleaved channels, then normalize by bit depth.
	mono := make([]int, len(buf.Data)/channels)
	for i := range mono {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch]
		}
		mono[i] = sum / channels
	}

	var samples []float64
	switch decoder.BitDepth {
	case 8:
		samples = dsp.NormalizeInt(mono, dsp.EncodingUnsigned8)
	case 16:
		samples = dsp.NormalizeInt(mono, dsp.EncodingSigned16)
	default:
		scale := float64(int64(1) << (decoder.BitDepth - 1))
		samples = make([]float64, len(mono))
		for i, v := range mono {
			samples[i] = float64(v) / scale
		}
	}

	w.done = make(chan struct{})
	w.running = true

	done := w.done
	frameLen := w.FrameLen
	interval := time.Duration(float64(frameLen) / sampleRate * float64(time.Second))

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		offset := 0
		for offset+frameLen <= len(samples) {
			select {
			case <-done:
				return
			case <-ticker.C:
				frame := make([]float64, frameLen)
				copy(frame, samples[offset:offset+frameLen])
				sink.OnFrame(dsp.Frame{Samples: frame, SampleRate: sampleRate})
				offset += frameLen
			}
		}
		applog.Infof("acquire: reached end of %s", w.Path)
	}()

	applog.Infof("acquire: replaying %s (%.0f Hz, %d samples)", w.Path, sampleRate, len(samples))
	return CapabilityWaveform, nil
}

// Stop implements Adapter. Safe to call when not running or after the
// file has run out.
func (w *WavFile) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	close(w.done)
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}
