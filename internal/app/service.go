package app

import (
	"time"

	"catalog-audit/internal/adapters"
	"catalog-audit/internal/ports"
	"catalog-audit/internal/types"
)

// Remotes are the collaborators that talk to the network. They depend on
// the loaded configuration and are built once per run.
type Remotes struct {
	CatalogIndex ports.CatalogIndexPort
	URLChecker   ports.URLCheckerPort
	Repositories ports.RepositoryPort
}

type Service struct {
	Config  ports.ConfigPort
	Token   ports.TokenPort
	Metrics ports.MetricsPort
	Reports map[string]ports.ReportPort
	Connect func(cfg types.Config, token string) (Remotes, error)
	Clock   func() time.Time
}

const (
	FormatMarkdown = "markdown"
	FormatPretty   = "pretty"
	FormatYAML     = "yaml"
)

func NewService(version string) Service {
	return Service{
		Config:  adapters.NewConfigFileAdapter(nil, "catalog-audit/"+version),
		Token:   adapters.NewTokenFileAdapter(nil),
		Metrics: adapters.NewMetricsTextfileAdapter(nil),
		Reports: map[string]ports.ReportPort{
			FormatMarkdown: adapters.NewMarkdownReportAdapter(false),
			FormatPretty:   adapters.NewMarkdownReportAdapter(true),
			FormatYAML:     adapters.NewYAMLReportAdapter(),
		},
		Connect: connectRemotes,
		Clock:   time.Now,
	}
}

func connectRemotes(cfg types.Config, token string) (Remotes, error) {
	repos, err := adapters.NewGitHubRepoAdapter(adapters.GitHubRepoOptions{
		Token:     token,
		UserAgent: cfg.UserAgent,
		BaseURL:   cfg.GitHubAPIURL,
	})
	if err != nil {
		return Remotes{}, err
	}
	return Remotes{
		CatalogIndex: adapters.NewCatalogIndexHTTPAdapter(cfg.UserAgent, cfg.HTTPTimeout),
		URLChecker:   adapters.NewHTTPURLCheckerAdapter(cfg.UserAgent, cfg.HTTPTimeout),
		Repositories: repos,
	}, nil
}
