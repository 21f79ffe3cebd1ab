package core

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
)

// InvalidVersionError reports a version string that is not a strict
// semantic version.
type InvalidVersionError struct {
	Version string
	Cause   error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("Version string not semver conformant: '%s'", e.Version)
}

func (e *InvalidVersionError) Unwrap() error {
	return e.Cause
}

// ResolveLatest returns the version string with the highest semantic
// version precedence. Build metadata does not take part in the ordering;
// when two strings have equal precedence the lexicographically greater
// string wins, so the result does not depend on input order.
func ResolveLatest(versions []string) (string, error) {
	if len(versions) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no releases to resolve")
	}
	var best *semver.Version
	bestRaw := ""
	for _, raw := range versions {
		parsed, err := semver.StrictNewVersion(raw)
		if err != nil {
			return "", &InvalidVersionError{Version: raw, Cause: err}
		}
		if best == nil {
			best, bestRaw = parsed, raw
			continue
		}
		cmp := parsed.Compare(best)
		if cmp > 0 || (cmp == 0 && raw > bestRaw) {
			best, bestRaw = parsed, raw
		}
	}
	return bestRaw, nil
}
