// Package version holds build identity, overridden at link time with
// -ldflags "-X incan/internal/version.Version=...".
package version

import "runtime/debug"

var (
	Version = "dev"
	Commit  = ""
)

// String returns the human version line.
func String() string {
	v := Version
	if Commit != "" {
		v += " (" + Commit + ")"
	}
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return v
}
