// Package buildinfo holds the version stamped into the binary at link time:
//
//	go build -ldflags "-X github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/constraintlayout
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build information as reported by the API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

// String formats the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}
