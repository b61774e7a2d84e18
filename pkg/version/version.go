package version

import "runtime/debug"

// String is the vcs revision and build time baked into the binary.
var String = func() string {
	commit := "unknown"
	at := ""
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				commit = setting.Value
			}
			if setting.Key == "vcs.time" {
				at = setting.Value
			}
		}
	}
	if at == "" {
		return commit
	}
	return commit + " (" + at + ")"
}()
