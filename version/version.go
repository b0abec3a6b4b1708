// Package version holds build metadata injected at link time via
// -ldflags "-X github.com/voterscan/voterscan/version.GitRelease=...".
package version

var (
	GitRelease = "dev"
	GitCommit  = "unknown"
)
