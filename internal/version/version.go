// Package version reports the build version of the bladefmt binary.
package version

import "runtime/debug"

// Version is set at build time via -ldflags; "dev" when built from source.
var Version = "dev"

// String returns the version to report to users, falling back to module
// build info when no version was stamped in.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}
