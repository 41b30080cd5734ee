// SPDX-License-Identifier: MIT
//
// Package build manages build metadata embedded into the binary with
// linker flags (application name, build timestamp, git commit and
// semantic version). Development builds without ldflags fall back to
// sensible defaults so `go run` keeps working.
package build

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// Package-level variables for build information. These are populated
// by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:    "vocalpitch",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies build information from the ldflags variables into
// the buildFlags struct, keeping the development defaults for any flag
// that was not provided. Call early in program startup.
func Initialize() {
	if buildName != "" {
		buildFlags.Name = buildName
	}
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
}

// GetBuildFlags returns the current build information. Safe to call
// any time after Initialize.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
