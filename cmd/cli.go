// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"os"
	"time"

	"vocalpitch/internal/config"
	"vocalpitch/pkg/build"

	"github.com/spf13/cobra"
)

// ParseArgs builds the runtime configuration from defaults, an optional
// YAML config file, environment overrides, and command line flags, in
// that order of precedence.
func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	options := config.NewConfig()

	var configFile string

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Real-time vocal pitch detection",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load the YAML file first, then let explicit flags win.
			loaded, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			mergeFileConfig(options, loaded, cmd)
			options.ConfigFile = configFile
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return options.Validate()
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio input devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "version"
			fmt.Printf("%s %s (%s, built %s)\n",
				buildInfo.Name, buildInfo.Version, buildInfo.Commit, buildInfo.Time)
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Audio Device Configuration
	rootCmd.PersistentFlags().IntVarP(&options.Audio.InputDevice, "device", "d", config.DefaultDeviceID,
		"Specify input device ID. Use 'list' command to see available devices.")
	rootCmd.PersistentFlags().Float64VarP(&options.Audio.SampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	rootCmd.PersistentFlags().IntVarP(&options.Audio.FramesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"Analysis window length in frames (power of 2)")
	rootCmd.PersistentFlags().BoolVarP(&options.Audio.LowLatency, "low-latency", "l", config.DefaultLowLatency,
		"Use low latency mode for real-time processing")

	// Detection Configuration
	rootCmd.PersistentFlags().DurationVarP(&options.Detection.Interval, "interval", "i", config.DefaultInterval,
		"Analysis cycle cadence")
	rootCmd.PersistentFlags().Float64Var(&options.Detection.MinFrequency, "min-frequency", config.DefaultMinFrequency,
		"Lower bound of the detected vocal range (Hz)")
	rootCmd.PersistentFlags().Float64Var(&options.Detection.MaxFrequency, "max-frequency", config.DefaultMaxFrequency,
		"Upper bound of the detected vocal range (Hz)")

	// Input selection
	rootCmd.PersistentFlags().StringVarP(&options.WavInput, "wav", "w", "",
		"Replay a WAV file instead of opening an input device")
	rootCmd.PersistentFlags().Float64Var(&options.SimulateFrequency, "simulate", 0,
		"Drive detection with a synthetic sine at the given frequency (Hz)")

	// Recording Configuration
	rootCmd.PersistentFlags().BoolVarP(&options.Recording.Enabled, "record", "r", false,
		"Record captured audio to a WAV file while detecting")
	rootCmd.PersistentFlags().StringVarP(&options.Recording.OutputFile, "output", "o", "",
		"Output file name. Default is recording-DD-MM-YYYY-HHMMSS.wav")

	// Transport Configuration
	rootCmd.PersistentFlags().BoolVar(&options.Transport.WebsocketEnabled, "serve", false,
		"Serve detection state over a websocket endpoint")
	rootCmd.PersistentFlags().StringVar(&options.Transport.WebsocketPort, "port", "8080",
		"Websocket listen port")
	rootCmd.PersistentFlags().StringVar(&options.Transport.UDPTargetAddress, "udp", "",
		"Send binary detection packets to this UDP address (host:port)")

	// Config and Debug Configuration
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&options.Debug, "verbose", "v", false,
		"Show verbose output")

	// Defaults
	if options.Recording.OutputFile == "" {
		options.Recording.OutputFile = "recording-" +
			time.Now().UTC().Format("02-01-2006-150405") + ".wav"
	}

	// Execute the CLI
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	if options.Transport.UDPTargetAddress != "" && flagChanged(rootCmd, "udp") {
		options.Transport.UDPEnabled = true
	}
	if options.Debug {
		options.LogLevel = "debug"
	}

	return options, nil
}

// mergeFileConfig copies file-supplied values into options for every
// flag the user did not set explicitly on the command line.
func mergeFileConfig(options, loaded *config.Config, cmd *cobra.Command) {
	if loaded == nil {
		return
	}
	if !flagChanged(cmd, "device") {
		options.Audio.InputDevice = loaded.Audio.InputDevice
	}
	if !flagChanged(cmd, "sample-rate") {
		options.Audio.SampleRate = loaded.Audio.SampleRate
	}
	if !flagChanged(cmd, "frames-per-buffer") {
		options.Audio.FramesPerBuffer = loaded.Audio.FramesPerBuffer
	}
	if !flagChanged(cmd, "low-latency") {
		options.Audio.LowLatency = loaded.Audio.LowLatency
	}
	options.Audio.Channels = loaded.Audio.Channels
	if !flagChanged(cmd, "interval") {
		options.Detection.Interval = loaded.Detection.Interval
	}
	if !flagChanged(cmd, "min-frequency") {
		options.Detection.MinFrequency = loaded.Detection.MinFrequency
	}
	if !flagChanged(cmd, "max-frequency") {
		options.Detection.MaxFrequency = loaded.Detection.MaxFrequency
	}
	options.Detection.AmplitudeFloor = loaded.Detection.AmplitudeFloor
	options.Detection.Smoothing = loaded.Detection.Smoothing
	options.Detection.YinThreshold = loaded.Detection.YinThreshold
	options.Detection.MinCorrelation = loaded.Detection.MinCorrelation
	if !flagChanged(cmd, "record") {
		options.Recording.Enabled = loaded.Recording.Enabled
	}
	if !flagChanged(cmd, "output") && loaded.Recording.OutputFile != "" {
		options.Recording.OutputFile = loaded.Recording.OutputFile
	}
	options.Recording.BitDepth = loaded.Recording.BitDepth
	if !flagChanged(cmd, "serve") {
		options.Transport.WebsocketEnabled = loaded.Transport.WebsocketEnabled
	}
	if !flagChanged(cmd, "port") {
		options.Transport.WebsocketPort = loaded.Transport.WebsocketPort
	}
	if !flagChanged(cmd, "udp") {
		options.Transport.UDPEnabled = loaded.Transport.UDPEnabled
		options.Transport.UDPTargetAddress = loaded.Transport.UDPTargetAddress
	}
	options.Transport.UDPSendInterval = loaded.Transport.UDPSendInterval
	if !flagChanged(cmd, "verbose") {
		options.Debug = loaded.Debug
	}
	if loaded.LogLevel != "" {
		options.LogLevel = loaded.LogLevel
	}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.PersistentFlags().Lookup(name)
	return flag != nil && flag.Changed
}
