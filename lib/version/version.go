// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags -X. Empty values are filled from the VCS stamp the
// Go toolchain embeds, so `go install` builds still report a commit.
var (
	// Version is the release version of bureau-room-state.
	Version = "0.1.0-dev"

	// Commit is the short git SHA of the build.
	Commit = ""

	// Dirty is "true" when the tree had uncommitted changes.
	Dirty = ""

	// BuildTime is the UTC commit or build timestamp.
	BuildTime = ""
)

// Build describes the running binary.
type Build struct {
	Version   string
	Commit    string
	Dirty     bool
	Time      string
	GoVersion string
}

// Current returns the build description of the running binary.
func Current() Build {
	info, _ := debug.ReadBuildInfo()
	return current(info)
}

func current(info *debug.BuildInfo) Build {
	build := Build{
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		Time:      BuildTime,
		GoVersion: runtime.Version(),
	}
	if info == nil {
		return build
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if build.Commit == "" {
				build.Commit = setting.Value[:min(7, len(setting.Value))]
			}
		case "vcs.modified":
			if Dirty == "" {
				build.Dirty = setting.Value == "true"
			}
		case "vcs.time":
			if build.Time == "" {
				build.Time = setting.Value
			}
		}
	}
	return build
}

// String formats the build for --version output:
// "0.1.0-dev (abc1234-dirty, 2026-01-02T03:04:05Z, go1.25.6)".
func (build Build) String() string {
	commit := build.Commit
	if commit == "" {
		commit = "unknown"
	}
	if build.Dirty {
		commit += "-dirty"
	}
	buildTime := build.Time
	if buildTime == "" {
		buildTime = "unknown"
	}
	return fmt.Sprintf("%s (%s, %s, %s)", build.Version, commit, buildTime, build.GoVersion)
}

// Info returns Current formatted for --version output.
func Info() string {
	return Current().String()
}
