// Package buildinfo reports which build of mockup is running.
//
// Release builds inject the values with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/mockup/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/mockup/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/mockup/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds made with "go install module@version" carry no ldflags; for those
// the module version and VCS stamp embedded by the toolchain are used.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var fill sync.Once

// resolve fills unset values from the embedded build info.
func resolve() {
	fill.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "none" && len(s.Value) >= 7 {
					Commit = s.Value[:7]
				}
			case "vcs.time":
				if Date == "unknown" {
					Date = s.Value
				}
			}
		}
	})
}

// String returns the build information, one field per line.
func String() string {
	resolve()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra --version template.
func Template() string {
	resolve()
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies this build in the API server's Server header.
func UserAgent() string {
	resolve()
	return "mockup/" + Version
}
