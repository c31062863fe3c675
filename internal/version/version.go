// Package version reports the build of the running binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X rectlink/internal/version.Version=..." at release time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Commit returns GitCommit, or the VCS revision recorded by the go tool when
// the binary was built from a checkout without ldflags.
func Commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return GitCommit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return GitCommit
}

// String returns the version with its commit and build time.
func String() string {
	return fmt.Sprintf("v%s (commit %s, built %s)", Version, Commit(), BuildTime)
}
