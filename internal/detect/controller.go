// SPDX-License-Identifier: MIT
package detect

import (
	"fmt"
	"sync"
	"time"

	"vocalpitch/internal/acquire"
	"vocalpitch/internal/config"
	"vocalpitch/internal/dsp"
	"vocalpitch/internal/estimator"
	applog "vocalpitch/internal/log"
	"vocalpitch/internal/music"
)

// SessionState is the lifecycle state of a capture session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateStarting
	StateRunning
	StateStopping
	StateFailed
)

// String returns the lowercase state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Controller owns at most one capture session at a time and runs its
// recurring analysis cycle. The cycle goroutine is the only mutator of
// the published State; Start and Stop are the only operations that may
// block. Cancellation is cooperative: Stop signals the cycle and waits
// for any in-flight iteration before releasing the adapter.
type Controller struct {
	cfg        config.DetectionConfig
	cascade    *estimator.Cascade
	classifier Classifier
	adapter    acquire.Adapter
	publishers []Publisher

	mu         sync.Mutex // lifecycle transitions
	status     SessionState
	done       chan struct{}
	wg         sync.WaitGroup
	tracker    *Tracker
	capability acquire.Capability

	inMu     sync.Mutex // latest adapter payload + injected pitch
	frame    dsp.Frame
	summary  *acquire.Summary
	injected *injectedPitch

	stateMu sync.RWMutex
	state   State
}

// injectedPitch substitutes for adapter output: the synthetic entry
// point for deterministic tests and simulated input.
type injectedPitch struct {
	freq  float64
	level float64
}

// NewController builds a controller around an adapter. The adapter may
// be nil for injection-only sessions. Publishers receive every
// committed snapshot.
func NewController(cfg config.DetectionConfig, adapter acquire.Adapter, publishers ...Publisher) *Controller {
	return &Controller{
		cfg:        cfg,
		cascade:    estimator.DefaultCascade(cfg),
		classifier: NewClassifier(cfg),
		adapter:    adapter,
		publishers: publishers,
		state:      emptyState(),
	}
}

// Start transitions Idle -> Starting -> Running, resolving the adapter
// and beginning the periodic analysis cycle. Calling Start on a
// session that is already starting or running is a no-op: there is
// never more than one active cycle per controller.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case StateRunning, StateStarting:
		applog.Debugf("detect: start ignored, session already %s", c.status)
		return nil
	}

	c.status = StateStarting

	// A fresh tracker per session; the previously latched note
	// persists until a new stable note displaces it.
	prevStable := c.Snapshot().LastStableNote
	c.tracker = NewTracker(c.cfg.Smoothing)
	if prevStable != "" && prevStable != music.NoNote {
		c.tracker.stableNote = prevStable
	}

	if c.adapter != nil {
		capability, err := c.adapter.Start(&adapterSink{c: c})
		if err != nil {
			// Failed -> Idle: acquisition failures are fatal, no retry.
			c.status = StateIdle
			applog.Errorf("detect: session failed to start: %v", err)
			return fmt.Errorf("acquisition unavailable: %w", err)
		}
		c.capability = capability
	} else {
		c.capability = acquire.CapabilityWaveform
	}

	c.inMu.Lock()
	c.frame = dsp.Frame{}
	c.summary = nil
	c.inMu.Unlock()

	s := emptyState()
	s.Detecting = true
	s.LastStableNote = c.tracker.StableNote()
	c.setState(s)

	c.done = make(chan struct{})
	c.status = StateRunning
	c.wg.Add(1)
	go c.run(c.done)

	applog.Infof("detect: session running (%s capability, %s cadence)",
		c.capability, c.cfg.Interval)
	return nil
}

// Stop transitions Running -> Stopping -> Idle: it cancels the cycle,
// waits for any in-flight iteration, releases the adapter and resets
// the transient snapshot fields while preserving the latched note.
// Stopping an idle controller is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.status != StateRunning {
		c.mu.Unlock()
		applog.Debugf("detect: stop ignored, session %s", c.status)
		return nil
	}
	c.status = StateStopping
	close(c.done)
	c.mu.Unlock()

	c.wg.Wait()

	var err error
	if c.adapter != nil {
		if stopErr := c.adapter.Stop(); stopErr != nil {
			err = fmt.Errorf("failed to release adapter: %w", stopErr)
		}
	}

	c.resetTransient()

	c.mu.Lock()
	c.status = StateIdle
	c.mu.Unlock()

	applog.Infof("detect: session stopped")
	return err
}

// Status returns the current lifecycle state.
func (c *Controller) Status() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot returns the latest committed detection state.
func (c *Controller) Snapshot() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// InjectPitch substitutes a synthetic pitch (at the given amplitude)
// for adapter output. Injected values still flow through the voiced
// classifier, stability tracker and note mapper.
func (c *Controller) InjectPitch(freqHz, level float64) {
	c.inMu.Lock()
	c.injected = &injectedPitch{freq: freqHz, level: level}
	c.inMu.Unlock()
}

// ClearInjectedPitch resumes analysis of adapter output.
func (c *Controller) ClearInjectedPitch() {
	c.inMu.Lock()
	c.injected = nil
	c.inMu.Unlock()
}

// run is the session's single analysis goroutine.
func (c *Controller) run(done chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// the stop flag wins over a pending tick
			select {
			case <-done:
				return
			default:
			}
			c.runCycle()
		}
	}
}

// runCycle executes one analysis pass: pick the input source, estimate,
// classify, track, then commit and publish the snapshot. Staged adapter
// payloads are consumed here: each buffer feeds exactly one cycle, and a
// cycle with nothing newly staged analyzes silence. An injected pitch is
// the exception; it substitutes until explicitly cleared.
func (c *Controller) runCycle() {
	c.inMu.Lock()
	injected := c.injected
	frame := c.frame
	summary := c.summary
	c.frame = dsp.Frame{}
	c.summary = nil
	c.inMu.Unlock()

	var (
		res       estimator.Result
		amplitude float64
	)
	switch {
	case injected != nil:
		res = estimator.Result{
			Estimate: estimator.Estimate{Frequency: injected.freq, Strength: 1},
			Method:   "synthetic",
		}
		amplitude = injected.level
	case c.capability == acquire.CapabilitySpectral && summary != nil:
		freq, strength := peakFromSummary(summary, c.cfg)
		res = estimator.Result{
			Estimate: estimator.Estimate{Frequency: freq, Strength: strength},
			Method:   "spectral",
		}
		amplitude = summary.Volume
	case len(frame.Samples) > 0:
		amplitude = dsp.RMS(frame.Samples)
		res = c.cascade.Estimate(frame.Samples, frame.SampleRate)
	}

	voiced := c.classifier.Voiced(res.Frequency, amplitude)
	c.tracker.Observe(res.Frequency, voiced)

	s := State{
		Note:           music.NoNote,
		Detecting:      true,
		Method:         res.Method,
		StabilityPct:   c.tracker.Stability(),
		LastStableNote: c.tracker.StableNote(),
	}
	if voiced {
		pitch := c.tracker.Smoothed()
		note, cents := music.NoteFor(pitch)
		s.PitchHz = pitch
		s.Note = note.String()
		s.CentsOff = cents
		s.Voiced = true
	}

	c.setState(s)
	c.publish(s)
}

// fail handles a fatal mid-session acquisition error: the session
// transitions Running -> Failed -> Idle and is not retried.
func (c *Controller) fail(err error) {
	applog.Errorf("detect: acquisition failed: %v", err)

	c.mu.Lock()
	if c.status != StateRunning {
		c.mu.Unlock()
		return
	}
	c.status = StateFailed
	close(c.done)
	c.mu.Unlock()

	c.wg.Wait()
	if c.adapter != nil {
		if stopErr := c.adapter.Stop(); stopErr != nil {
			applog.Errorf("detect: releasing adapter after failure: %v", stopErr)
		}
	}

	c.resetTransient()

	c.mu.Lock()
	c.status = StateIdle
	c.mu.Unlock()
}

// resetTransient clears the per-session display fields, keeping the
// latched note.
func (c *Controller) resetTransient() {
	c.stateMu.Lock()
	last := c.state.LastStableNote
	c.state = emptyState()
	c.state.LastStableNote = last
	c.stateMu.Unlock()
}

func (c *Controller) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

func (c *Controller) publish(s State) {
	for _, p := range c.publishers {
		if err := p.Publish(s); err != nil {
			applog.Debugf("detect: publish failed: %v", err)
		}
	}
}

// peakFromSummary picks the strongest vocal-range bin from a spectral
// summary. Low fidelity on purpose: capability-limited platforms only
// get bin resolution.
func peakFromSummary(s *acquire.Summary, cfg config.DetectionConfig) (float64, float64) {
	if s.BinHz <= 0 || len(s.Magnitudes) == 0 {
		return 0, 0
	}
	lo := int(cfg.MinFrequency / s.BinHz)
	if lo < 1 {
		lo = 1
	}
	hi := int(cfg.MaxFrequency / s.BinHz)
	if hi >= len(s.Magnitudes) {
		hi = len(s.Magnitudes) - 1
	}
	best, bestMag := -1, 0.0
	for i := lo; i <= hi; i++ {
		if s.Magnitudes[i] > bestMag {
			best, bestMag = i, s.Magnitudes[i]
		}
	}
	if best < 0 || bestMag < cfg.AmplitudeFloor {
		return 0, 0
	}
	return float64(best) * s.BinHz, bestMag
}

// adapterSink feeds adapter output into the controller. Payloads are
// staged under inMu and consumed by the next cycle; no buffer is
// shared between cycles.
type adapterSink struct {
	c *Controller
}

func (s *adapterSink) OnFrame(f dsp.Frame) {
	s.c.inMu.Lock()
	s.c.frame = f
	s.c.inMu.Unlock()
}

func (s *adapterSink) OnSummary(sum acquire.Summary) {
	s.c.inMu.Lock()
	s.c.summary = &sum
	s.c.inMu.Unlock()
}

func (s *adapterSink) OnError(err error) {
	// fail waits for the adapter's goroutines; never run it on one.
	go s.c.fail(err)
}
