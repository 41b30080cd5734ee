// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origFlags   ldFlags
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	origFlags = *buildFlags

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	*buildFlags = origFlags

	os.Exit(exitCode)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		buildName   string
		buildVer    string
		wantName    string
		wantVersion string
	}{
		{"No ldflags keeps defaults", "", "", "vocalpitch", "dev"},
		{"Name only", "testapp", "", "testapp", "dev"},
		{"Name and version", "testapp", "v1.0.0", "testapp", "v1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildFlags = &ldFlags{
				Name:    "vocalpitch",
				Time:    "unknown",
				Commit:  "unknown",
				Version: "dev",
			}
			buildName = tt.buildName
			buildTime = ""
			buildCommit = ""
			buildVersion = tt.buildVer

			Initialize()

			if buildFlags.Name != tt.wantName {
				t.Errorf("buildFlags.Name = %v, want %v", buildFlags.Name, tt.wantName)
			}
			if buildFlags.Version != tt.wantVersion {
				t.Errorf("buildFlags.Version = %v, want %v", buildFlags.Version, tt.wantVersion)
			}
		})
	}
}

func TestGetBuildFlags(t *testing.T) {
	flags := GetBuildFlags()
	if flags == nil {
		t.Fatal("GetBuildFlags() returned nil")
	}
	if flags.Name == "" {
		t.Error("build name should never be empty")
	}
}
