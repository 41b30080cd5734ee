package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"vocalpitch/cmd"
	"vocalpitch/internal/acquire"
	"vocalpitch/internal/config"
	"vocalpitch/internal/detect"
	applog "vocalpitch/internal/log"
	"vocalpitch/internal/transport"
	"vocalpitch/internal/transport/udp"
	"vocalpitch/pkg/build"
)

// main is the entry point for the pitch detection application.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and configuration
//   - Execute one-off commands if requested
//   - Initialize PortAudio when a live device is needed
//
// 2. Concurrent Phase (Hot Path):
//   - Start the detection controller
//   - Acquisition callbacks feed frames into the analysis cycle
//   - Publishers broadcast detection snapshots
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals
//   - Stop the controller and flush the recorder
//   - Clean up transport resources
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	build.Initialize()

	// One thread for the audio callback, one for analysis and I/O.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}

	switch cfg.Command {
	case "version":
		return
	case "list":
		if err := acquire.Initialize(); err != nil {
			applog.Fatalf("%v", err)
		}
		defer acquire.Terminate()
		if err := acquire.ListDevices(); err != nil {
			applog.Fatalf("%v", err)
		}
		return
	}

	adapter, cleanup, err := buildAdapter(cfg)
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	publishers := buildPublishers(cfg)

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	controller := detect.NewController(cfg.Detection, adapter, publishers...)
	if err := controller.Start(); err != nil {
		applog.Fatalf("%v", err)
	}

	fmt.Printf("%s listening. Press Ctrl+C to stop.\n", build.GetBuildFlags().Name)

	<-done

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	if err := controller.Stop(); err != nil {
		applog.Errorf("stopping detection: %v", err)
	}
	for _, p := range publishers {
		if err := p.Close(); err != nil {
			applog.Errorf("closing publisher: %v", err)
		}
	}
	if cfg.Recording.Enabled && cfg.WavInput == "" && cfg.SimulateFrequency == 0 {
		fmt.Printf("\nRecording saved to: %s\n", cfg.Recording.OutputFile)
	}
}

// buildAdapter selects the acquisition source: a synthetic tone, a WAV
// file replay, or a live PortAudio input device. The returned cleanup
// function, when non-nil, must run after the controller has stopped.
func buildAdapter(cfg *config.Config) (acquire.Adapter, func(), error) {
	switch {
	case cfg.SimulateFrequency > 0:
		gen := acquire.NewSynthetic(cfg.SimulateFrequency, 0.5,
			cfg.Audio.SampleRate, cfg.Audio.FramesPerBuffer, cfg.Detection.Interval)
		return gen, nil, nil

	case cfg.WavInput != "":
		return acquire.NewWavFile(cfg.WavInput, cfg.Audio.FramesPerBuffer), nil, nil

	default:
		if err := acquire.Initialize(); err != nil {
			return nil, nil, err
		}
		mic := acquire.NewMicrophone(cfg.Audio)
		cleanup := func() {
			if err := acquire.Terminate(); err != nil {
				applog.Errorf("terminating audio subsystem: %v", err)
			}
		}
		if cfg.Recording.Enabled {
			recorder, err := acquire.NewRecorder(
				cfg.Recording.OutputFile,
				cfg.Audio.SampleRate,
				cfg.Recording.BitDepth,
			)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			mic.SetRecorder(recorder)
			terminate := cleanup
			cleanup = func() {
				if err := recorder.Close(); err != nil {
					applog.Errorf("closing recorder: %v", err)
				}
				terminate()
			}
		}
		return mic, cleanup, nil
	}
}

// buildPublishers wires the enabled transports. The log publisher is
// always present so a bare invocation still shows detections.
func buildPublishers(cfg *config.Config) []detect.Publisher {
	publishers := []detect.Publisher{transport.LogPublisher{}}

	if cfg.Transport.WebsocketEnabled {
		publishers = append(publishers, transport.NewWebSocketPublisher(cfg.Transport.WebsocketPort))
	}

	if cfg.Transport.UDPEnabled && cfg.Transport.UDPTargetAddress != "" {
		sender, err := udp.NewSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			applog.Errorf("udp transport disabled: %v", err)
		} else {
			interval := cfg.Transport.UDPSendInterval
			if interval <= 0 {
				interval = 100 * time.Millisecond
			}
			pub, err := udp.NewPublisher(sender, interval)
			if err != nil {
				applog.Errorf("udp transport disabled: %v", err)
			} else {
				publishers = append(publishers, pub)
			}
		}
	}

	return publishers
}
