package version

import (
	"fmt"
	"runtime"
)

// Populated at release time via -ldflags -X.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the one-line banner printed by the version command.
func String() string {
	return fmt.Sprintf("serenade %s (commit=%s, date=%s, go=%s)", Version, Commit, Date, runtime.Version())
}
