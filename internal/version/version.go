// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Provide build-time version information (module version or Git commit) to the CLI.
package version

import (
	"fmt"
	"runtime/debug"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the version information derived from build info.
// A tagged module version wins; otherwise the short VCS revision is used,
// suffixed with "(dirty)" when the tree was modified. It returns "dev" when
// neither is available.
func GetVersion() string {
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var revision string
	var modified bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
