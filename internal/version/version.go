package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/homesick/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/homesick/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/homesick/internal/version.Date={{.Date}}
)

// String formats the build information the way `homesick version` prints it
func String() string {
	return fmt.Sprintf("homesick version %s\n  commit: %s\n  built:  %s\n", Version, Commit, Date)
}
