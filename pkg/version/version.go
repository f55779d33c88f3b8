// Package version holds the build metadata of the astforge binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata, set with -ldflags "-X github.com/Sumatoshi-tech/astforge/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)

const (
	settingRevision = "vcs.revision"
	settingTime     = "vcs.time"
	shortHashLen    = 12
)

// Info is the resolved build metadata.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the build metadata. Values not injected at link time are
// filled from the module build info when the binary carries it.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case settingRevision:
			if Commit == "<unknown>" {
				info.Commit = s.Value
				if len(info.Commit) > shortHashLen {
					info.Commit = info.Commit[:shortHashLen]
				}
			}
		case settingTime:
			if Date == "<unknown>" {
				info.Date = s.Value
			}
		}
	}

	return info
}

// String renders the metadata the way the version command prints it.
func (i Info) String() string {
	return fmt.Sprintf("astforge %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
