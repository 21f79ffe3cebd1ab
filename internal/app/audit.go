package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"catalog-audit/internal/core"
	"catalog-audit/internal/policies"
	"catalog-audit/internal/ports"
	"catalog-audit/internal/types"
)

// Audit validates every configured catalog in order and writes one report
// per catalog as soon as it is complete.
func (s Service) Audit(ctx context.Context, req AuditRequest) (AuditResult, error) {
	report, err := s.reportFor(req.Format)
	if err != nil {
		return AuditResult{}, err
	}
	out := req.Out
	if out == nil {
		out = io.Discard
	}
	cfg, err := s.Config.Load(req.ConfigPath)
	if err != nil {
		return AuditResult{}, err
	}
	policy, err := policies.NewReleasePolicy(ctx, cfg)
	if err != nil {
		return AuditResult{}, err
	}
	token, err := s.Token.Read(req.TokenPath)
	if err != nil {
		return AuditResult{}, err
	}
	if token == "" {
		log.Ctx(ctx).Debug().Msg("no github token, using anonymous access")
	}
	remotes, err := s.Connect(cfg, token)
	if err != nil {
		return AuditResult{}, err
	}

	releases := core.NewReleaseValidator(policy, remotes.URLChecker, remotes.Repositories)
	if s.Clock != nil {
		releases.Clock = s.Clock
	}
	validator := core.NewCatalogValidator(releases, req.Workers)
	filtered := len(req.AppNames) > 0

	var result AuditResult
	for _, catalog := range cfg.Catalogs {
		catalogCtx := log.Ctx(ctx).With().Str("catalog", catalog.Name).Logger().WithContext(ctx)
		index, err := remotes.CatalogIndex.Load(catalogCtx, catalog.URL)
		if err != nil {
			return result, err
		}
		apps, err := validator.ValidateCatalog(catalogCtx, index, req.AppNames)
		if err != nil {
			return result, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("audit of catalog %s interrupted", catalog.Name)).
				WithCause(err)
		}
		catalogReport := types.CatalogReport{
			Name:     catalog.Name,
			URL:      catalog.URL,
			AppCount: len(index.Entries),
			Apps:     apps,
		}
		for _, app := range apps {
			catalogReport.Totals = catalogReport.Totals.Add(app.Result.Totals())
		}
		if err := report.WriteCatalog(out, catalogReport, filtered); err != nil {
			return result, err
		}
		log.Ctx(catalogCtx).Info().
			Int("apps", len(apps)).
			Int("errors", catalogReport.Totals.Errors).
			Int("warnings", catalogReport.Totals.Warnings).
			Msg("catalog audited")
		result.Catalogs = append(result.Catalogs, catalogReport)
		result.Totals = result.Totals.Add(catalogReport.Totals)
	}

	if strings.TrimSpace(req.MetricsFile) != "" && s.Metrics != nil {
		if err := s.Metrics.Write(req.MetricsFile, result.Catalogs); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s Service) reportFor(format string) (ports.ReportPort, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatMarkdown
	}
	report, ok := s.Reports[format]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported report format %q", format))
	}
	return report, nil
}
