package core

import (
	"fmt"
	"sort"
	"strings"

	"catalog-audit/internal/types"
)

// OwnerResolution is the outcome of reconciling the ownership sources of
// an app. Owner is only set when exactly one identity was found.
type OwnerResolution struct {
	Owners  []string
	Owner   string
	Finding types.Finding
}

// ResolveOwners merges the team annotation with the teams found in the
// CODEOWNERS file. An empty annotation means the annotation is absent.
// Identical names collapse into one owner.
func ResolveOwners(annotation string, codeowners []string) OwnerResolution {
	set := map[string]struct{}{}
	if annotation != "" {
		set[annotation] = struct{}{}
	}
	for _, owner := range codeowners {
		set[owner] = struct{}{}
	}
	owners := make([]string, 0, len(set))
	for owner := range set {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	resolution := OwnerResolution{Owners: owners}
	switch len(owners) {
	case 0:
		resolution.Finding = types.Finding{
			Category: types.CategoryError,
			Message:  "App does not have a visible owner",
		}
	case 1:
		resolution.Owner = owners[0]
		resolution.Finding = types.Finding{
			Category: types.CategoryAccolade,
			Message:  fmt.Sprintf("App data exposes a single owner `%s`", owners[0]),
		}
	default:
		resolution.Finding = types.Finding{
			Category: types.CategoryError,
			Message:  fmt.Sprintf("App data exposes various owners `%s`", strings.Join(owners, " ")),
		}
	}
	return resolution
}
