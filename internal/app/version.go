package app

import "strings"

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/heartmarshall/forkful-backend/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns the version for startup logs, e.g.
// "1.2.0 (commit a1b2c3d, built 2026-01-02)". Unknown parts are omitted.
func BuildVersion() string {
	var extra []string
	if Commit != "" && Commit != "unknown" {
		extra = append(extra, "commit "+Commit)
	}
	if BuildTime != "" && BuildTime != "unknown" {
		extra = append(extra, "built "+BuildTime)
	}
	if len(extra) == 0 {
		return Version
	}
	return Version + " (" + strings.Join(extra, ", ") + ")"
}
