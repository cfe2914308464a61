// Package version holds build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"  // ex: v0.1.0
	Commit    = "none" // ex: abcd123
	BuildDate = ""     // ex: 2026-10-16T18:42:00Z
	GoVersion = runtime.Version()
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// Get returns the build metadata. Without ldflags the commit and date fall
// back to the VCS stamp of `go build`.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: GoVersion}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "none":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.BuildDate == "":
				info.BuildDate = s.Value
			}
		}
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("marks %s (commit=%s, built=%s, go=%s)", i.Version, i.Commit, i.BuildDate, i.GoVersion)
}
