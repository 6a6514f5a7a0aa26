// Package version reports build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/greenledger/meatprint/pkg/version.version=v1.2.3 \
//	  -X github.com/greenledger/meatprint/pkg/version.gitCommit=abc1234 \
//	  -X github.com/greenledger/meatprint/pkg/version.buildDate=2026-01-02T15:04:05Z"
//
//nolint:gochecknoglobals // Overridden by the linker.
var (
	version   = "v0.0.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the semantic version of the binary.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// IsRelease reports whether the version is a valid semantic version without
// a pre-release suffix.
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Prerelease() == ""
}

// String returns the full version line printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s/%s)",
		version, gitCommit, buildDate, runtime.GOOS, runtime.GOARCH)
}
