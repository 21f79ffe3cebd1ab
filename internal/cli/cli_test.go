package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-audit/internal/app"
	"catalog-audit/internal/types"
)

// ---------- Stubs ----------

type stubConfig struct{ cfg types.Config }

func (s stubConfig) Load(string) (types.Config, error) { return s.cfg, nil }

type stubToken struct{}

func (stubToken) Read(string) (string, error) { return "", nil }

type stubIndex struct{ index types.CatalogIndex }

func (s stubIndex) Load(context.Context, string) (types.CatalogIndex, error) { return s.index, nil }

type stubURLs struct{}

func (stubURLs) Head(context.Context, string) types.URLStatus {
	return types.URLStatus{Reachable: true, StatusCode: 200}
}

func (stubURLs) Get(context.Context, string) (int, string) { return 200, "" }

type stubRepos struct{}

func (stubRepos) Exists(context.Context, string) bool { return false }

func (stubRepos) GetFile(context.Context, string, string) ([]byte, bool) { return nil, false }

func withStubService(t *testing.T, releases map[string][]types.Release) {
	t.Helper()
	previous := newAppService
	t.Cleanup(func() { newAppService = previous })
	newAppService = func() app.Service {
		service := app.NewService("test")
		service.Config = stubConfig{cfg: types.Config{
			Organization:         "acme",
			KeywordPattern:       "^[a-z]+$",
			CodeownerTeamPattern: "@acme/(team-[a-z]+)",
			Catalogs:             []types.CatalogSource{{Name: "default", URL: "https://charts.example.com/index.yaml"}},
		}}
		service.Token = stubToken{}
		service.Connect = func(types.Config, string) (app.Remotes, error) {
			return app.Remotes{
				CatalogIndex: stubIndex{index: types.CatalogIndex{Entries: releases}},
				URLChecker:   stubURLs{},
				Repositories: stubRepos{},
			}, nil
		}
		return service
	}
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "latest")
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	flags := []string{
		"conf", "token-path", "app-name", "format",
		"workers", "metrics-file", "no-fail",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	assert.Equal(t, "./config.yaml", cmd.Flags().Lookup("conf").DefValue)
	assert.Equal(t, "~/.github-token", cmd.Flags().Lookup("token-path").DefValue)
}

// ---------- Command execution tests ----------

func TestLatestCommand(t *testing.T) {
	out, err := runRoot(t, "latest", "1.0.0", "1.2.0", "0.9.9")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0\n", out)

	_, err = runRoot(t, "latest", "1.0.0", "banana")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

func TestAuditCommandFailsOnErrorFindings(t *testing.T) {
	withStubService(t, map[string][]types.Release{
		"hello": {types.NewRelease(map[string]any{"name": "hello", "version": "1.0.0"})},
	})

	out, err := runRoot(t, "--conf", "/etc/audit.yaml")
	require.Error(t, err)
	assert.Equal(t, 1, exitCodeForError(err))
	assert.Contains(t, out, "## Catalog `default` - 1 apps")
	assert.Contains(t, out, "### `hello` (_no owner_)")

	out, err = runRoot(t, "--no-fail", "--app-name", "hello")
	require.NoError(t, err)
	assert.NotContains(t, out, "## Catalog")
}

func TestAuditCommandRejectsBadInput(t *testing.T) {
	withStubService(t, map[string][]types.Release{})

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--bogus"}},
		{name: "zero workers", args: []string{"--workers", "0"}},
		{name: "unknown format", args: []string{"--format", "html"}},
		{name: "stray argument", args: []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRoot(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, 2, exitCodeForError(err))
		})
	}
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStrings(t *testing.T) {
	got := resolveStrings(nil, []string{"a", "b"}, "test_key", "test-flag")
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestResolveBoolAndInt(t *testing.T) {
	assert.True(t, resolveBool(nil, true, "test_key", "test-flag"))
	assert.False(t, resolveBool(nil, false, "test_key", "test-flag"))
	assert.Equal(t, 42, resolveInt(nil, 42, "test_key", "test-flag"))
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")

	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "config not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("config file not found: ./config.yaml"),
			expected: 2,
		},
		{
			name: "error findings",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("audit found 3 errors"),
			expected: 1,
		},
		{
			name: "catalog fetch",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to fetch catalog index: status 503"),
			expected: 3,
		},
		{
			name: "catalog parse",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to parse catalog index"),
			expected: 3,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
