// Package buildinfo holds build-time variables injected via ldflags:
//
//	go build -ldflags "-X github.com/go-ports/helper/internal/buildinfo.Version=v1.2.0" ./cmd/helper
package buildinfo

import "fmt"

// Populated by -ldflags at build time; defaults used for local dev.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// Summary renders every build variable on one line.
func Summary() string {
	return fmt.Sprintf("helper %s (commit %s, branch %s, built %s)", Version, GitCommit, GitBranch, BuildDate)
}
