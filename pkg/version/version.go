// Package version carries build information stamped in at link time.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/Sumatoshi-tech/linseg/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)

// Info is the build information of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information. Missing stamps fall back to the VCS
// settings embedded by the Go toolchain.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	info.GoVersion = build.GoVersion

	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "<unknown>" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.Date == "<unknown>" {
				info.Date = setting.Value
			}
		}
	}

	return info
}

func (i Info) String() string {
	return fmt.Sprintf("linseg %s (commit %s, built %s, %s)", i.Version, i.Commit, i.Date, i.GoVersion)
}
