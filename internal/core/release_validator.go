package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"catalog-audit/internal/policies"
	"catalog-audit/internal/ports"
	"catalog-audit/internal/types"
)

// ReleaseValidator audits a single release against the release policy and
// the external consistency checks. Checks run sequentially in a fixed
// order and findings keep that order.
type ReleaseValidator struct {
	Policy       policies.ReleasePolicy
	URLChecker   ports.URLCheckerPort
	Repositories ports.RepositoryPort
	Clock        func() time.Time
}

func NewReleaseValidator(policy policies.ReleasePolicy, urls ports.URLCheckerPort, repos ports.RepositoryPort) ReleaseValidator {
	return ReleaseValidator{
		Policy:       policy,
		URLChecker:   urls,
		Repositories: repos,
		Clock:        time.Now,
	}
}

// releaseAudit carries the state collected while walking one release.
type releaseAudit struct {
	release         types.Release
	result          types.ValidationResult
	urls            []string
	repoHandle      string
	ownerAnnotation string
	ownerCodeowners []string
}

func (v ReleaseValidator) Validate(ctx context.Context, release types.Release) types.ValidationResult {
	audit := &releaseAudit{release: release}

	v.checkFields(audit)
	v.checkHome(ctx, audit)
	v.checkIcon(ctx, audit)
	v.checkKeywords(audit)
	v.checkType(audit)
	v.checkAnnotations(ctx, audit)
	v.checkFreshness(audit)
	v.checkDeprecated(audit)
	v.checkURLLists(ctx, audit)
	v.checkMaintainers(ctx, audit)
	checkDuplicateURLs(&audit.result, audit.urls)
	v.checkRepository(ctx, audit)

	owners := ResolveOwners(audit.ownerAnnotation, audit.ownerCodeowners)
	audit.result.Add(owners.Finding.Category, owners.Finding.Message)
	audit.result.Owner = owners.Owner

	log.Ctx(ctx).Debug().
		Str("release", release.Name).
		Str("version", release.Version).
		Int("errors", len(audit.result.Errors)).
		Int("warnings", len(audit.result.Warnings)).
		Msg("release validated")
	return audit.result
}

func (v ReleaseValidator) checkFields(audit *releaseAudit) {
	release := audit.release
	result := &audit.result
	for _, field := range policies.RequiredFields {
		Check(result, release.Has(field), CheckOptions{
			Error: fmt.Sprintf("No `%s` given", field),
		})
	}

	if release.Has(types.FieldAPIVersion) {
		Check(result, release.APIVersion == policies.LegacyAPIVersion || release.APIVersion == policies.ModernAPIVersion, CheckOptions{
			Error: fmt.Sprintf("Invalid helm chart apiVersion value `%s`", release.APIVersion),
		})
		Check(result, release.APIVersion != policies.LegacyAPIVersion, CheckOptions{
			Suggestion: "Migrate helm chart to apiVersion v2",
		})
	}

	for _, field := range policies.RecommendedFields {
		Check(result, release.Has(field), CheckOptions{
			Warning:  fmt.Sprintf("No `%s` given", field),
			Accolade: fmt.Sprintf("Chart specifies the `%s` field", field),
		})
	}
	for _, field := range policies.SuggestedFields {
		Check(result, release.Has(field), CheckOptions{
			Suggestion: fmt.Sprintf("Specify `%s` attribute", field),
			Accolade:   fmt.Sprintf("Chart specifies the `%s` field", field),
		})
	}
	Check(result, release.Has(types.FieldDependencies), CheckOptions{
		Suggestion: "Use `dependencies` to inform about required apps/charts",
		Accolade:   "Chart specifies `dependencies`",
	})

	if release.Has(types.FieldName) {
		Check(result, !strings.HasSuffix(release.Name, policies.AppNameSuffix), CheckOptions{
			Warning: fmt.Sprintf("App name should not end with `%s`", policies.AppNameSuffix),
		})
	}
	if release.Has(types.FieldDescription) {
		Check(result, !strings.Contains(strings.ToLower(release.Description), policies.DescriptionPattern), CheckOptions{
			Warning: fmt.Sprintf("Description should be unique and meaningful (is: `%s`)", release.Description),
		})
	}
}

func (v ReleaseValidator) checkHome(ctx context.Context, audit *releaseAudit) {
	release := audit.release
	result := &audit.result
	prefix := v.Policy.HomePrefix()
	Check(result, release.Has(types.FieldHome), CheckOptions{
		Error: fmt.Sprintf("Field `home` not set, must be set to a `%s...` repository URL", prefix),
	})
	if !release.Has(types.FieldHome) {
		return
	}
	audit.urls = append(audit.urls, release.Home)

	owned := strings.HasPrefix(release.Home, prefix)
	Check(result, owned, CheckOptions{
		Warning:  fmt.Sprintf("URL in `home` should point to a GitHub repo owned by %s (is %s)", v.Policy.Organization, release.Home),
		Accolade: fmt.Sprintf("URL in `home` points to a GitHub repo owned by %s", v.Policy.Organization),
	})
	if handle, ok := v.Policy.RepoHandle(release.Home); ok {
		audit.repoHandle = handle
		result.RepoURL = release.Home
	}

	status := v.URLChecker.Head(ctx, release.Home)
	Check(result, status.Reachable, CheckOptions{
		Error: fmt.Sprintf("URL in `home` is invalid, status code %d - `%s`", status.StatusCode, release.Home),
	})
}

func (v ReleaseValidator) checkIcon(ctx context.Context, audit *releaseAudit) {
	release := audit.release
	if !release.Has(types.FieldIcon) {
		return
	}
	result := &audit.result
	Check(result, strings.HasPrefix(release.Icon, v.Policy.IconPrefix), CheckOptions{
		Warning:  fmt.Sprintf("Icon URL should start with `%s` (is %s)", v.Policy.IconPrefix, release.Icon),
		Accolade: "Icon is hosted on the organization icon server",
	})
	status := v.URLChecker.Head(ctx, release.Icon)
	Check(result, status.Reachable, CheckOptions{
		Error: fmt.Sprintf("Icon URL is invalid, status code %d - `%s`", status.StatusCode, release.Icon),
	})
	Check(result, strings.HasSuffix(strings.ToLower(release.Icon), ".svg"), CheckOptions{
		Warning:  fmt.Sprintf("Icon should use the SVG format - currently: `%s`", release.Icon),
		Accolade: "Icon is in the SVG format",
	})
}

func (v ReleaseValidator) checkKeywords(audit *releaseAudit) {
	release := audit.release
	if !release.Has(types.FieldKeywords) {
		return
	}
	result := &audit.result
	Check(result, len(release.Keywords) > 0, CheckOptions{
		Error: "Keywords list is empty",
	})
	for _, keyword := range release.Keywords {
		Check(result, v.Policy.KeywordMatches(keyword), CheckOptions{
			Warning: fmt.Sprintf("Keyword doesn't match the expected format: `%s`", keyword),
		})
	}
}

func (v ReleaseValidator) checkType(audit *releaseAudit) {
	release := audit.release
	if !release.Has(types.FieldType) {
		return
	}
	Check(&audit.result, release.Type == policies.ApplicationType, CheckOptions{
		Error: fmt.Sprintf("Chart field `type` should be `%s` but is `%s` instead", policies.ApplicationType, release.Type),
	})
}

func (v ReleaseValidator) checkAnnotations(ctx context.Context, audit *releaseAudit) {
	release := audit.release
	if !release.Has(types.FieldAnnotations) {
		return
	}
	result := &audit.result
	for _, annotation := range policies.RequiredAnnotations {
		url, ok := release.Annotation(annotation)
		Check(result, ok, CheckOptions{
			Warning: fmt.Sprintf("Annotation `%s` should be set", annotation),
		})
		if !ok {
			continue
		}
		status := v.URLChecker.Head(ctx, url)
		Check(result, status.Reachable, CheckOptions{
			Error: fmt.Sprintf("URL in annotation `%s` is invalid, status code %d - `%s`", annotation, status.StatusCode, url),
		})
		if !status.Reachable || annotation != policies.AnnotationReadme {
			continue
		}
		if release.Has(types.FieldVersion) {
			Check(result, strings.Contains(url, release.Version), CheckOptions{
				Warning:  fmt.Sprintf("README URL %s does not appear to be versioned", url),
				Accolade: "README URL appears to be versioned",
			})
		}
		code, body := v.URLChecker.Get(ctx, url)
		result.Merge(ValidateReadme(url, code, body))
	}

	team, ok := release.Annotation(policies.AnnotationTeam)
	Check(result, ok, CheckOptions{
		Warning:  fmt.Sprintf("Annotation `%s` should be set", policies.AnnotationTeam),
		Accolade: "Team ownership is exposed via annotation",
	})
	if !ok {
		return
	}
	audit.ownerAnnotation = team
	Check(result, strings.Contains(team, "-"), CheckOptions{
		Warning: fmt.Sprintf("Owner name in team annotation `%s` does not look like a proper GitHub team name, misses prefix like `team-`", team),
	})
}

func (v ReleaseValidator) checkFreshness(audit *releaseAudit) {
	release := audit.release
	if !release.Has(types.FieldCreated) {
		return
	}
	result := &audit.result
	created, ok := parseCreated(release.Created)
	if !ok {
		result.AddWarning(fmt.Sprintf("Field `created` is not a valid timestamp (is `%s`)", release.Created))
		return
	}
	now := time.Now
	if v.Clock != nil {
		now = v.Clock
	}
	days := now().UTC().Sub(created).Hours() / 24
	Check(result, days <= float64(v.Policy.MaxReleaseAgeDays), CheckOptions{
		Warning:  fmt.Sprintf("Latest release is older than %d days", v.Policy.MaxReleaseAgeDays),
		Accolade: fmt.Sprintf("Latest release is fresh (%d days old)", int(days)),
	})
}

func (v ReleaseValidator) checkDeprecated(audit *releaseAudit) {
	if audit.release.Has(types.FieldDeprecated) && audit.release.Deprecated {
		audit.result.AddWarning("Latest release is marked as deprecated")
	}
}

func (v ReleaseValidator) checkURLLists(ctx context.Context, audit *releaseAudit) {
	release := audit.release
	for _, field := range policies.URLListFields {
		if !release.Has(field) {
			continue
		}
		urls := release.Sources
		if field == types.FieldURLs {
			urls = release.URLs
		}
		for _, url := range urls {
			audit.urls = append(audit.urls, url)
			status := v.URLChecker.Head(ctx, url)
			Check(&audit.result, status.Reachable, CheckOptions{
				Error: fmt.Sprintf("URL in `%s` is invalid, status code %d - `%s`", field, status.StatusCode, url),
			})
		}
	}
}

func (v ReleaseValidator) checkMaintainers(ctx context.Context, audit *releaseAudit) {
	if !audit.release.Has(types.FieldMaintainers) {
		return
	}
	for _, maintainer := range audit.release.Maintainers {
		if !maintainer.HasURL {
			continue
		}
		audit.urls = append(audit.urls, maintainer.URL)
		status := v.URLChecker.Head(ctx, maintainer.URL)
		Check(&audit.result, status.Reachable, CheckOptions{
			Error: fmt.Sprintf("URL in maintainer is invalid, status code %d - `%s`", status.StatusCode, maintainer.URL),
		})
	}
}

func (v ReleaseValidator) checkRepository(ctx context.Context, audit *releaseAudit) {
	result := &audit.result
	handle := audit.repoHandle
	if handle == "" {
		result.AddError("Could not detect GitHub repo for this app")
		return
	}
	if !v.Repositories.Exists(ctx, handle) {
		result.AddError(fmt.Sprintf("GitHub repo %s does not exist or is not accessible", handle))
		return
	}

	codeowners, ok := v.Repositories.GetFile(ctx, handle, policies.CodeownersFile)
	Check(result, ok, CheckOptions{
		Warning:  fmt.Sprintf("Repo %s should have a `%s` file", handle, policies.CodeownersFile),
		Accolade: fmt.Sprintf("Repo %s has a `%s` file", handle, policies.CodeownersFile),
	})
	if ok {
		teams := v.Policy.CodeownerTeams(string(codeowners))
		Check(result, len(teams) > 0, CheckOptions{
			Warning: "CODEOWNERS file does not seem to contain any team name",
		})
		audit.ownerCodeowners = teams
	}

	for _, path := range policies.HygieneFiles {
		_, ok := v.Repositories.GetFile(ctx, handle, path)
		Check(result, ok, CheckOptions{
			Warning:  fmt.Sprintf("Repo %s should have a `%s` file", handle, path),
			Accolade: fmt.Sprintf("Repo %s has a `%s` file", handle, path),
		})
	}
}

// parseCreated parses the release timestamp in any of the layouts seen in
// catalog indexes and returns it in UTC.
func parseCreated(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
