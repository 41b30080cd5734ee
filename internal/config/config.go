// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"time"

	"vocalpitch/pkg/bitint"
)

// Core configuration constants that define the boundaries and defaults
// for the pitch detection engine.
const (
	// Default values for audio acquisition
	DefaultChannels        = 1     // Mono audio
	DefaultDeviceID        = MinDeviceID
	DefaultFramesPerBuffer = 2048  // Enough lag depth for 80 Hz at 44.1 kHz
	DefaultLowLatency      = false
	DefaultSampleRate      = 44100 // CD-quality audio

	// Default values for the detection core
	DefaultMinFrequency   = 80.0   // Low male voice
	DefaultMaxFrequency   = 2000.0 // Upper end of the vocal range
	DefaultAmplitudeFloor = 0.01   // Normalized RMS below this is silence
	DefaultSmoothing      = 0.9    // Exponential smoothing factor
	DefaultYinThreshold   = 0.15   // CMNDF absolute threshold
	DefaultMinCorrelation = 0.3    // Autocorrelation confidence floor

	// DefaultInterval is the cadence of the analysis cycle.
	DefaultInterval = 100 * time.Millisecond

	// Hardware and processing limits
	MinDeviceID     = -1     // -1 represents system default device
	MinSampleRate   = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate   = 192000 // Maximum supported sample rate (Hz)
	MinBufferFrames = 512    // Cascade refuses shorter windows
	MaxBufferFrames = 8192   // Maximum frames per buffer (power of 2)
)

// Config holds all runtime configuration for the detection engine.
// It is built from defaults, optionally a YAML file, environment
// overrides, and finally command line flags.
type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	Audio     AudioConfig     `yaml:"audio"`
	Detection DetectionConfig `yaml:"detection"`
	Recording RecordingConfig `yaml:"recording"`
	Transport TransportConfig `yaml:"transport"`

	// Runtime-only fields set by the CLI, never loaded from YAML.
	Command           string  `yaml:"-"` // One-off command ("list", "version") or empty
	ConfigFile        string  `yaml:"-"` // Explicit config file path
	WavInput          string  `yaml:"-"` // Replay a WAV file instead of opening a device
	SimulateFrequency float64 `yaml:"-"` // Drive detection with a synthetic tone (Hz)
}

// AudioConfig holds settings for the acquisition layer.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default)
	SampleRate      float64 `yaml:"sample_rate"`       // Sample rate in Hz
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Analysis window length in frames
	Channels        int     `yaml:"channels"`          // Captured channels (downmixed to mono)
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency from the device
}

// DetectionConfig holds the tunables of the estimation cascade and
// the voiced/stability post-processing.
type DetectionConfig struct {
	Interval       time.Duration `yaml:"interval"`        // Analysis cycle cadence
	MinFrequency   float64       `yaml:"min_frequency"`   // Lower vocal bound (Hz)
	MaxFrequency   float64       `yaml:"max_frequency"`   // Upper vocal bound (Hz)
	AmplitudeFloor float64       `yaml:"amplitude_floor"` // Normalized RMS silence floor
	Smoothing      float64       `yaml:"smoothing"`       // Pitch smoothing factor [0,1)
	YinThreshold   float64       `yaml:"yin_threshold"`   // Difference-function threshold
	MinCorrelation float64       `yaml:"min_correlation"` // Autocorrelation confidence floor
}

// RecordingConfig holds settings for teeing captured input to a WAV file.
type RecordingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputFile string `yaml:"output_file"`
	BitDepth   int    `yaml:"bit_depth"`
}

// TransportConfig holds settings for publishing detection snapshots.
type TransportConfig struct {
	WebsocketEnabled bool          `yaml:"websocket_enabled"`
	WebsocketPort    string        `yaml:"websocket_port"`
	UDPEnabled       bool          `yaml:"udp_enabled"`
	UDPTargetAddress string        `yaml:"udp_target_address"`
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`
}

// NewConfig creates a Config populated with defaults. This is the base
// configuration before file, environment, or flag overrides.
func NewConfig() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			Channels:        DefaultChannels,
			LowLatency:      DefaultLowLatency,
		},
		Detection: DetectionConfig{
			Interval:       DefaultInterval,
			MinFrequency:   DefaultMinFrequency,
			MaxFrequency:   DefaultMaxFrequency,
			AmplitudeFloor: DefaultAmplitudeFloor,
			Smoothing:      DefaultSmoothing,
			YinThreshold:   DefaultYinThreshold,
			MinCorrelation: DefaultMinCorrelation,
		},
		Recording: RecordingConfig{
			Enabled:  false,
			BitDepth: 16,
		},
		Transport: TransportConfig{
			WebsocketEnabled: false,
			WebsocketPort:    "8080",
			UDPEnabled:       false,
			UDPTargetAddress: "127.0.0.1:9090",
			UDPSendInterval:  100 * time.Millisecond,
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %.0f outside supported range [%d, %d]",
			c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if !bitint.IsPowerOfTwo(c.Audio.FramesPerBuffer) {
		return fmt.Errorf("audio.frames_per_buffer %d must be a power of 2", c.Audio.FramesPerBuffer)
	}
	if c.Audio.FramesPerBuffer < MinBufferFrames || c.Audio.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("audio.frames_per_buffer %d outside supported range [%d, %d]",
			c.Audio.FramesPerBuffer, MinBufferFrames, MaxBufferFrames)
	}
	if c.Audio.Channels < 1 {
		return fmt.Errorf("audio.channels must be at least 1, got %d", c.Audio.Channels)
	}
	if c.Detection.Interval <= 0 {
		return fmt.Errorf("detection.interval must be positive, got %s", c.Detection.Interval)
	}
	if c.Detection.MinFrequency <= 0 || c.Detection.MinFrequency >= c.Detection.MaxFrequency {
		return fmt.Errorf("detection frequency bounds invalid: min=%.1f max=%.1f",
			c.Detection.MinFrequency, c.Detection.MaxFrequency)
	}
	if c.Detection.MaxFrequency > c.Audio.SampleRate/2 {
		return fmt.Errorf("detection.max_frequency %.1f exceeds Nyquist for sample rate %.0f",
			c.Detection.MaxFrequency, c.Audio.SampleRate)
	}
	if c.Detection.Smoothing < 0 || c.Detection.Smoothing >= 1 {
		return fmt.Errorf("detection.smoothing must be in [0, 1), got %.3f", c.Detection.Smoothing)
	}
	if c.Detection.AmplitudeFloor < 0 {
		return fmt.Errorf("detection.amplitude_floor must be non-negative, got %.4f", c.Detection.AmplitudeFloor)
	}
	return nil
}
