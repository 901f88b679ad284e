// Package version exposes build metadata stamped by the linker.
package version

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// String returns the human-readable version line printed by --version.
func String() string {
	s := Version
	if CommitHash != "unknown" {
		s += " (" + CommitHash + ")"
	}
	return s
}
