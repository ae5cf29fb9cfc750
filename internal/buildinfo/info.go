// Package buildinfo carries the version stamped into the liasse binary.
package buildinfo

import "fmt"

// Set via -ldflags "-X github.com/cleared-dev/liasse/internal/buildinfo.Version=..." at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build stamp for --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
