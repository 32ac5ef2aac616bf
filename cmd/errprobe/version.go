package main

import (
	"runtime/debug"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

// buildVersion appends the VCS revision from the build info when present.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}

	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}

	v := version
	if revision != "" {
		v += "-" + revision
	}
	if dirty {
		v += "-dirty"
	}
	return v
}
