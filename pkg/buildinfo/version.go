// Package buildinfo exposes the version stamped into the binary.
//
// Values are injected with ldflags:
//
//	go build -ldflags "-X github.com/dnaconvert/dnaconvert/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/dnaconvert/dnaconvert/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/dnaconvert/dnaconvert/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Info is the build description served by the HTTP API.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
}

// Template returns the --version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
