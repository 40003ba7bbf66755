package semver

import (
	"strconv"
	"strings"

	sv "github.com/Masterminds/semver/v3"
)

// Advisories returns the warnings a requested range warrants, in the
// order they should be shown. The range is passed as found in the
// manifest, empty when no engine version was requested. Advisories
// never block a run.
func Advisories(rng string) []string {
	rng = strings.TrimSpace(rng)

	var advisories []string
	switch {
	case rng == "":
		advisories = append(advisories, "no engine version requested in package.json; the latest stable version will be used")
	case IsWildcard(rng):
		advisories = append(advisories, "wildcard engine range "+strconv.Quote(rng)+" resolves to the latest stable version; pin a range for repeatable builds")
	}

	if strings.HasPrefix(rng, ">") {
		advisories = append(advisories, "engine ranges starting with \">\" frequently match more than intended; prefer a bounded range")
	}

	return advisories
}

// IsWildcard reports whether rng accepts any version at all. Wildcard
// ranges are resolved as the empty range, which the service answers
// with its default version.
func IsWildcard(rng string) bool {
	switch strings.ToLower(strings.TrimSpace(rng)) {
	case "*", "x", "x.x", "x.x.x":
		return true
	}
	return false
}

// IsUnstable reports whether a resolved version belongs to an odd-minor
// development line of the pre-1.0 release scheme.
func IsUnstable(version string) bool {
	v, err := sv.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Major() == 0 && v.Minor()%2 == 1
}
