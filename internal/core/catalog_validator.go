package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"catalog-audit/internal/types"
)

const defaultWorkers = 1

// CatalogValidator drives the audit of the apps of one catalog.
type CatalogValidator struct {
	Releases ReleaseValidator
	Workers  int
}

func NewCatalogValidator(releases ReleaseValidator, workers int) CatalogValidator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return CatalogValidator{Releases: releases, Workers: workers}
}

// ValidateApp resolves the latest release of an app and audits it.
// Releases repeating an already seen version are reported and ignored.
func (c CatalogValidator) ValidateApp(ctx context.Context, releases []types.Release) types.ValidationResult {
	var result types.ValidationResult

	byVersion := make(map[string]types.Release, len(releases))
	versions := make([]string, 0, len(releases))
	for _, release := range releases {
		if _, ok := byVersion[release.Version]; ok {
			result.AddError(fmt.Sprintf("Duplicate release %s", release.Version))
			continue
		}
		byVersion[release.Version] = release
		versions = append(versions, release.Version)
	}

	latest, err := ResolveLatest(versions)
	if err != nil {
		result.AddError(fmt.Sprintf("Could not validate latest version: %s", errorText(err)))
		return result
	}
	result.LatestRelease = latest
	log.Ctx(ctx).Debug().Str("version", latest).Int("releases", len(versions)).Msg("latest release resolved")

	releaseResult := c.Releases.Validate(ctx, byVersion[latest])
	result.Merge(releaseResult)
	result.RepoURL = releaseResult.RepoURL
	result.Owner = releaseResult.Owner
	return result
}

// ValidateCatalog audits the selected apps of the index. An empty filter
// selects every app. Reports are returned in sorted app name order
// whatever the number of workers.
func (c CatalogValidator) ValidateCatalog(ctx context.Context, index types.CatalogIndex, filter []string) ([]types.AppReport, error) {
	names := selectApps(index, filter)
	reports := make([]types.AppReport, len(names))

	workers := c.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, name := range names {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			appCtx := log.Ctx(groupCtx).With().Str("app", name).Logger().WithContext(groupCtx)
			reports[i] = types.AppReport{
				Name:   name,
				Result: c.ValidateApp(appCtx, index.Entries[name]),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Int("apps", len(reports)).Msg("catalog validated")
	return reports, nil
}

func selectApps(index types.CatalogIndex, filter []string) []string {
	names := index.AppNames()
	if len(filter) == 0 {
		return names
	}
	wanted := make(map[string]struct{}, len(filter))
	for _, name := range filter {
		wanted[name] = struct{}{}
	}
	selected := make([]string, 0, len(filter))
	for _, name := range names {
		if _, ok := wanted[name]; ok {
			selected = append(selected, name)
		}
	}
	return selected
}
