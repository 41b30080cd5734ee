// SPDX-License-Identifier: MIT
package acquire

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"vocalpitch/internal/config"
	"vocalpitch/internal/dsp"
	applog "vocalpitch/internal/log"
)

// Initialize sets up the PortAudio subsystem. Must be called before
// any microphone operation and paired with a Terminate() call.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate cleanly shuts down the PortAudio subsystem.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// Microphone is the PortAudio-backed adapter. It captures float32
// frames from an input device, downmixes to mono and delivers
// normalized frames at the device's native cadence.
type Microphone struct {
	cfg config.AudioConfig

	mu       sync.Mutex
	stream   *portaudio.Stream
	sink     Sink
	recorder *Recorder
	running  bool
}

// NewMicrophone returns an unstarted microphone adapter.
func NewMicrophone(cfg config.AudioConfig) *Microphone {
	return &Microphone{cfg: cfg}
}

// SetRecorder attaches a WAV recorder that tees every captured frame.
// Must be called before Start.
func (m *Microphone) SetRecorder(r *Recorder) {
	m.mu.Lock()
	m.recorder = r
	m.mu.Unlock()
}

// Start implements Adapter. It resolves the input device, opens and
// starts the capture stream. Failures map onto the acquisition
// sentinels so callers can distinguish them.
func (m *Microphone) Start(sink Sink) (Capability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return CapabilityWaveform, fmt.Errorf("microphone already started")
	}

	device, err := InputDevice(m.cfg.InputDevice)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	latency := device.DefaultHighInputLatency
	if m.cfg.LowLatency {
		latency = device.DefaultLowInputLatency
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: m.cfg.Channels,
			Device:   device,
			Latency:  latency,
		},
		FramesPerBuffer: m.cfg.FramesPerBuffer,
		SampleRate:      m.cfg.SampleRate,
	}

	m.sink = sink
	stream, err := portaudio.OpenStream(params, m.processInput)
	if err != nil {
		return 0, fmt.Errorf("%w: open stream: %v", ErrUnsupported, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return 0, fmt.Errorf("%w: start stream: %v", ErrUnsupported, err)
	}

	m.stream = stream
	m.running = true
	applog.Infof("acquire: capture started on %q (%.0f Hz, %d frames)",
		device.Name, m.cfg.SampleRate, m.cfg.FramesPerBuffer)

	return CapabilityWaveform, nil
}

// processInput is the PortAudio callback. It runs on the audio thread:
// normalize, hand off, optionally tee to the recorder, return.
func (m *Microphone) processInput(in []float32) {
	samples := dsp.NormalizeFloat32(in, m.cfg.Channels)
	frame := dsp.Frame{Samples: samples, SampleRate: m.cfg.SampleRate}
	m.sink.OnFrame(frame)

	if m.recorder != nil {
		if err := m.recorder.Write(frame); err != nil {
			applog.Errorf("acquire: recording write failed: %v", err)
		}
	}
}

// Stop implements Adapter. Safe to call when not running.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}
	m.running = false

	if err := m.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture stream: %w", err)
	}
	if err := m.stream.Close(); err != nil {
		return fmt.Errorf("failed to close capture stream: %w", err)
	}
	m.stream = nil

	if m.recorder != nil {
		if err := m.recorder.Close(); err != nil {
			applog.Errorf("acquire: closing recorder: %v", err)
		}
	}

	applog.Infof("acquire: capture stopped")
	return nil
}
