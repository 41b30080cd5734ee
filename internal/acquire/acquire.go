// SPDX-License-Identifier: MIT
/*
Package acquire defines the acquisition adapter contract and its
platform implementations: a PortAudio microphone, a WAV file reader
and a synthetic signal generator.

Adapters deliver either raw normalized sample frames (waveform
capability, the preferred path) or coarse volume/frequency-bin
summaries (spectral capability, for platforms without raw buffer
access). Start fails fast with a distinguishable error when the
underlying capability is unavailable instead of silently degrading.
*/
package acquire

import (
	"errors"

	"vocalpitch/internal/dsp"
)

// Capability describes what an adapter can deliver once started.
type Capability int

const (
	// CapabilityWaveform delivers raw normalized sample frames.
	CapabilityWaveform Capability = iota
	// CapabilitySpectral delivers coarse volume/frequency-bin summaries.
	CapabilitySpectral
)

// String returns a human-readable capability name.
func (c Capability) String() string {
	switch c {
	case CapabilityWaveform:
		return "waveform"
	case CapabilitySpectral:
		return "spectral"
	default:
		return "unknown"
	}
}

// Acquisition failure sentinels. All are fatal to a session; signal
// quality conditions never surface here.
var (
	ErrNoDevice         = errors.New("no capture device available")
	ErrPermissionDenied = errors.New("capture permission denied")
	ErrUnsupported      = errors.New("capture not supported on this platform")
)

// Summary is the lower-fidelity payload of spectral-capability
// adapters: an amplitude proxy plus per-bin magnitudes starting at DC,
// each bin BinHz wide.
type Summary struct {
	Volume     float64
	Magnitudes []float64
	BinHz      float64
}

// Sink receives adapter output. Implementations must tolerate calls
// from the adapter's delivery goroutine.
type Sink interface {
	OnFrame(frame dsp.Frame)
	OnSummary(summary Summary)
	// OnError reports a fatal mid-session acquisition failure. The
	// adapter stops delivering after calling it.
	OnError(err error)
}

// Adapter supplies sample data to a capture session. Exactly one
// adapter instance is active per session.
type Adapter interface {
	// Start begins delivery into the sink and reports the capability
	// of this adapter. It must fail fast when acquisition is
	// unavailable (no device, permission denied, API absent).
	Start(sink Sink) (Capability, error)

	// Stop ends delivery and releases the underlying resources.
	Stop() error
}
