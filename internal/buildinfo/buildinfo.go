// Package buildinfo carries identifiers stamped in at link time:
//
//	-ldflags "-X dhtpanel/internal/buildinfo.Version=v1.2.0 -X dhtpanel/internal/buildinfo.Commit=abc123"
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the most specific single identifier available.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String returns version, commit and date for startup logs.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
