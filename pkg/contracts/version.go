package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version is the bacicli release
const Version = "0.3.0"

// DataRelease is the BACI release whose file names and columns the loader
// is written against
const DataRelease = "V202401"

// Stamped at link time:
//
//	-ldflags "-X bacicli/pkg/contracts.GitCommit=$(git rev-parse HEAD) -X bacicli/pkg/contracts.BuildTime=..."
//
// When left empty they are taken from the VCS stamp the go tool embeds.
var (
	BuildTime string
	GitCommit string
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit,omitempty"`
	BuildTime   string `json:"build_time,omitempty"`
	Dirty       bool   `json:"dirty,omitempty"`
	GoVersion   string `json:"go_version"`
	Platform    string `json:"platform"`
	DataRelease string `json:"data_release"`
}

// ReadBuildInfo collects version details for the running binary
func ReadBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:     Version,
		Commit:      GitCommit,
		BuildTime:   BuildTime,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		DataRelease: DataRelease,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// String renders the one-line form printed by -version
func (b BuildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BACI Trade Report v%s", b.Version)

	var details []string
	if b.Commit != "" {
		commit := b.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		if b.Dirty {
			commit += "+dirty"
		}
		details = append(details, "commit "+commit)
	}
	if b.BuildTime != "" {
		details = append(details, "built "+b.BuildTime)
	}
	details = append(details, b.GoVersion, b.Platform, "data "+b.DataRelease)
	fmt.Fprintf(&sb, " (%s)", strings.Join(details, ", "))
	return sb.String()
}
