package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{
		Version:     "1.2.3",
		Commit:      "0123456789abcdef0123",
		BuildTime:   "2026-01-02T03:04:05Z",
		Dirty:       true,
		GoVersion:   "go1.24.0",
		Platform:    "linux/amd64",
		DataRelease: "V202401",
	}
	assert.Equal(t,
		"BACI Trade Report v1.2.3 (commit 0123456789ab+dirty, built 2026-01-02T03:04:05Z, go1.24.0, linux/amd64, data V202401)",
		info.String())

	bare := BuildInfo{Version: "1.2.3", GoVersion: "go1.24.0", Platform: "linux/amd64", DataRelease: "V202401"}
	assert.Equal(t, "BACI Trade Report v1.2.3 (go1.24.0, linux/amd64, data V202401)", bare.String())
}

func TestReadBuildInfo(t *testing.T) {
	old := GitCommit
	GitCommit = "stamped"
	t.Cleanup(func() { GitCommit = old })

	info := ReadBuildInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, "stamped", info.Commit, "ldflags win over the VCS stamp")
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, DataRelease, info.DataRelease)
}
