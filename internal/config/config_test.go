// SPDX-License-Identifier: MIT
package config

import (
	"strings"
	"testing"
	"time"
)

func TestNewConfigDefaultsValid(t *testing.T) {
	t.Parallel()
	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.Audio.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %f, want %d", cfg.Audio.SampleRate, DefaultSampleRate)
	}
	if cfg.Detection.Interval != DefaultInterval {
		t.Errorf("Interval = %s, want %s", cfg.Detection.Interval, DefaultInterval)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "sample rate too low",
			mutate:  func(c *Config) { c.Audio.SampleRate = 4000 },
			wantErr: "sample_rate",
		},
		{
			name:    "sample rate too high",
			mutate:  func(c *Config) { c.Audio.SampleRate = 400000 },
			wantErr: "sample_rate",
		},
		{
			name:    "buffer not power of two",
			mutate:  func(c *Config) { c.Audio.FramesPerBuffer = 3000 },
			wantErr: "power of 2",
		},
		{
			name:    "buffer too small",
			mutate:  func(c *Config) { c.Audio.FramesPerBuffer = 256 },
			wantErr: "frames_per_buffer",
		},
		{
			name:    "buffer too large",
			mutate:  func(c *Config) { c.Audio.FramesPerBuffer = 16384 },
			wantErr: "frames_per_buffer",
		},
		{
			name:    "zero channels",
			mutate:  func(c *Config) { c.Audio.Channels = 0 },
			wantErr: "channels",
		},
		{
			name:    "non-positive interval",
			mutate:  func(c *Config) { c.Detection.Interval = 0 },
			wantErr: "interval",
		},
		{
			name: "inverted frequency bounds",
			mutate: func(c *Config) {
				c.Detection.MinFrequency = 500
				c.Detection.MaxFrequency = 100
			},
			wantErr: "frequency bounds",
		},
		{
			name: "max frequency beyond nyquist",
			mutate: func(c *Config) {
				c.Audio.SampleRate = 8000
				c.Detection.MaxFrequency = 5000
			},
			wantErr: "Nyquist",
		},
		{
			name:    "smoothing out of range",
			mutate:  func(c *Config) { c.Detection.Smoothing = 1.0 },
			wantErr: "smoothing",
		},
		{
			name:    "negative amplitude floor",
			mutate:  func(c *Config) { c.Detection.AmplitudeFloor = -0.1 },
			wantErr: "amplitude_floor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate returned %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate returned %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIntervalBoundary(t *testing.T) {
	t.Parallel()
	cfg := NewConfig()
	cfg.Detection.Interval = time.Millisecond
	if err := cfg.Validate(); err != nil {
		t.Errorf("1ms interval rejected: %v", err)
	}
}
