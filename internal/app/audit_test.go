package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-audit/internal/types"
)

// ----------------------------------------------------------------------------
// Stubs
// ----------------------------------------------------------------------------

type stubConfig struct {
	cfg types.Config
	err error
}

func (s stubConfig) Load(string) (types.Config, error) { return s.cfg, s.err }

type stubToken struct {
	token string
	path  *string
}

func (s stubToken) Read(path string) (string, error) {
	if s.path != nil {
		*s.path = path
	}
	return s.token, nil
}

type stubCatalogIndex struct {
	indexes map[string]types.CatalogIndex
}

func (s stubCatalogIndex) Load(_ context.Context, url string) (types.CatalogIndex, error) {
	index, ok := s.indexes[url]
	if !ok {
		return types.CatalogIndex{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to fetch catalog index")
	}
	return index, nil
}

type reachableURLs struct{}

func (reachableURLs) Head(context.Context, string) types.URLStatus {
	return types.URLStatus{Reachable: true, StatusCode: 200}
}

func (reachableURLs) Get(context.Context, string) (int, string) { return 200, "" }

type noRepositories struct{}

func (noRepositories) Exists(context.Context, string) bool { return false }

func (noRepositories) GetFile(context.Context, string, string) ([]byte, bool) { return nil, false }

type captureMetrics struct {
	path    *string
	reports *[]types.CatalogReport
}

func (c captureMetrics) Write(path string, reports []types.CatalogReport) error {
	*c.path = path
	*c.reports = reports
	return nil
}

// ----------------------------------------------------------------------------
// Fixtures
// ----------------------------------------------------------------------------

func release(name string, version string, home string) types.Release {
	return types.NewRelease(map[string]any{
		"apiVersion":  "v2",
		"created":     "2026-10-10T00:00:00Z",
		"description": "Does " + name + " things",
		"digest":      "sha256:" + name,
		"name":        name,
		"version":     version,
		"home":        home,
		"annotations": map[string]any{"application.giantswarm.io/team": "team-" + name},
	})
}

func testService(indexes map[string]types.CatalogIndex, catalogs []types.CatalogSource) Service {
	service := NewService("test")
	service.Config = stubConfig{cfg: types.Config{
		Organization:         "acme",
		KeywordPattern:       "^[a-z]+$",
		CodeownerTeamPattern: "@acme/(team-[a-z]+)",
		Catalogs:             catalogs,
	}}
	service.Token = stubToken{}
	service.Connect = func(types.Config, string) (Remotes, error) {
		return Remotes{
			CatalogIndex: stubCatalogIndex{indexes: indexes},
			URLChecker:   reachableURLs{},
			Repositories: noRepositories{},
		}, nil
	}
	service.Clock = func() time.Time { return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) }
	return service
}

func twoCatalogs() (map[string]types.CatalogIndex, []types.CatalogSource) {
	indexes := map[string]types.CatalogIndex{
		"https://charts.example.com/default/index.yaml": {Entries: map[string][]types.Release{
			"beta":  {release("beta", "1.0.0", "https://example.com/beta")},
			"alpha": {release("alpha", "0.1.0", "https://example.com/alpha"), release("alpha", "0.2.0", "https://example.com/alpha")},
		}},
		"https://charts.example.com/extra/index.yaml": {Entries: map[string][]types.Release{
			"gamma": {release("gamma", "not-semver", "https://example.com/gamma")},
		}},
	}
	catalogs := []types.CatalogSource{
		{Name: "default", URL: "https://charts.example.com/default/index.yaml"},
		{Name: "extra", URL: "https://charts.example.com/extra/index.yaml"},
	}
	return indexes, catalogs
}

// ----------------------------------------------------------------------------
// Tests
// ----------------------------------------------------------------------------

func TestAuditAllCatalogs(t *testing.T) {
	indexes, catalogs := twoCatalogs()
	service := testService(indexes, catalogs)
	var out bytes.Buffer

	result, err := service.Audit(t.Context(), AuditRequest{Format: FormatMarkdown, Workers: 2, Out: &out})
	require.NoError(t, err)

	require.Len(t, result.Catalogs, 2)
	names := []string{}
	for _, app := range result.Catalogs[0].Apps {
		names = append(names, app.Name)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, names); diff != "" {
		t.Fatalf("unexpected app order (-want +got):\n%s", diff)
	}
	assert.Equal(t, "0.2.0", result.Catalogs[0].Apps[0].Result.LatestRelease)
	assert.Equal(t, 2, result.Catalogs[0].AppCount)
	assert.Equal(t, []string{"Could not validate latest version: Version string not semver conformant: 'not-semver'"},
		types.Messages(result.Catalogs[1].Apps[0].Result.Errors))

	total := result.Catalogs[0].Totals.Add(result.Catalogs[1].Totals)
	assert.Equal(t, total, result.Totals)
	assert.Positive(t, result.Totals.Errors)

	assert.Contains(t, out.String(), "## Catalog `default` - 2 apps")
	assert.Contains(t, out.String(), "## Catalog `extra` - 1 apps")
	assert.Contains(t, out.String(), "accolades in total")
}

func TestAuditAppFilter(t *testing.T) {
	indexes, catalogs := twoCatalogs()
	service := testService(indexes, catalogs)
	var out bytes.Buffer

	result, err := service.Audit(t.Context(), AuditRequest{AppNames: []string{"beta"}, Out: &out})
	require.NoError(t, err)

	require.Len(t, result.Catalogs[0].Apps, 1)
	assert.Equal(t, "beta", result.Catalogs[0].Apps[0].Name)
	assert.Empty(t, result.Catalogs[1].Apps)
	assert.Equal(t, types.Totals{}, result.Catalogs[1].Totals)
	assert.NotContains(t, out.String(), "## Catalog")
}

func TestAuditCatalogFetchFailureStopsRun(t *testing.T) {
	indexes, catalogs := twoCatalogs()
	delete(indexes, "https://charts.example.com/extra/index.yaml")
	service := testService(indexes, catalogs)

	result, err := service.Audit(t.Context(), AuditRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch catalog index")
	assert.Len(t, result.Catalogs, 1)
}

func TestAuditRejectsUnknownFormat(t *testing.T) {
	indexes, catalogs := twoCatalogs()
	service := testService(indexes, catalogs)

	_, err := service.Audit(t.Context(), AuditRequest{Format: "html"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestAuditPropagatesConfigErrors(t *testing.T) {
	service := testService(nil, nil)
	service.Config = stubConfig{err: errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("config file not found: x")}

	_, err := service.Audit(t.Context(), AuditRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	service.Config = stubConfig{cfg: types.Config{KeywordPattern: "(", CodeownerTeamPattern: "x"}}
	_, err = service.Audit(t.Context(), AuditRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestAuditPassesTokenPathAndWritesMetrics(t *testing.T) {
	indexes, catalogs := twoCatalogs()
	service := testService(indexes, catalogs)
	var tokenPath, metricsPath string
	var written []types.CatalogReport
	service.Token = stubToken{token: "secret", path: &tokenPath}
	service.Metrics = captureMetrics{path: &metricsPath, reports: &written}
	var gotToken string
	connect := service.Connect
	service.Connect = func(cfg types.Config, token string) (Remotes, error) {
		gotToken = token
		return connect(cfg, token)
	}

	result, err := service.Audit(t.Context(), AuditRequest{
		TokenPath:   "~/.github-token",
		Format:      FormatYAML,
		MetricsFile: "/tmp/audit.prom",
	})
	require.NoError(t, err)

	assert.Equal(t, "~/.github-token", tokenPath)
	assert.Equal(t, "secret", gotToken)
	assert.Equal(t, "/tmp/audit.prom", metricsPath)
	assert.Equal(t, result.Catalogs, written)
}

func TestNewServiceWiresReportFormats(t *testing.T) {
	service := NewService("1.2.3")
	for _, format := range []string{FormatMarkdown, FormatPretty, FormatYAML} {
		report, err := service.reportFor(format)
		require.NoError(t, err)
		assert.NotNil(t, report)
	}
	remotes, err := connectRemotes(types.Config{UserAgent: "catalog-audit/1.2.3", HTTPTimeout: time.Second}, "")
	require.NoError(t, err)
	assert.NotNil(t, remotes.CatalogIndex)
	assert.NotNil(t, remotes.URLChecker)
	assert.NotNil(t, remotes.Repositories)
}
