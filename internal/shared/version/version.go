// Package version reports the build version injected at link time.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is set with -ldflags "-X .../internal/shared/version.Version=1.2.3".
var Version = "dev"

// Commit is the source revision of the build, when known.
var Commit = ""

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Current returns the canonical build version, or the raw value for
// development builds that are not valid semver.
func Current() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		return Version
	}
	return semver.Canonical(v)
}

// IsRelease reports whether the binary was built from a tagged release
// without a prerelease suffix.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}
