// Package buildinfo reports which beer binary is running.
//
// Release builds stamp the values with -ldflags, for example
//
//	-X github.com/matzehuels/beer/pkg/buildinfo.Version=v0.3.0
//
// and plain "go install" builds fall back to the VCS data the Go toolchain
// embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

var fillOnce sync.Once

func fill() {
	fillOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && Commit == "":
				Commit = s.Value
			case s.Key == "vcs.time" && Date == "":
				Date = s.Value
			}
		}
	})
}

// Template is the cobra version template.
func Template() string {
	fill()
	commit, date := Commit, Date
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, commit, date)
}

// UserAgent identifies beer in outgoing registry requests.
func UserAgent() string {
	fill()
	return "beer/" + Version
}
