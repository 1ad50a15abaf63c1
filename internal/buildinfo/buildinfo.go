// Package buildinfo holds build-time variables injected via ldflags and
// reported by `library version` and the MCP server handshake.
package buildinfo

import "fmt"

// Populated by -ldflags at build time, e.g.
//
//	-X github.com/go-ports/library/internal/buildinfo.Version=v1.2.0
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// Summary renders the build variables as the multi-line block printed by
// the version command.
func Summary() string {
	return fmt.Sprintf("library %s\n  built:  %s\n  commit: %s (%s)\n",
		Version, BuildDate, GitCommit, GitBranch)
}
