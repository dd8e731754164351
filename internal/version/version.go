// Package version exposes build version information for the lanpin tools.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/lanpin/lanpin/internal/version.Version=v0.3.0 \
//	                   -X github.com/lanpin/lanpin/internal/version.Commit=abc123"
//
// When unset, VCS stamping from the Go build info fills them in.
var (
	// Version is the semantic version of the tools
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if ok && Commit == "" {
		var revision, modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if len(revision) > 7 {
				revision = revision[:7]
			}
			if modified == "true" {
				revision += "-dirty"
			}
			Commit = revision
		}
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
