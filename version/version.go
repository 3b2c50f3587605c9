// Package version holds build metadata injected via ldflags.
package version

var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = "unknown"
)
