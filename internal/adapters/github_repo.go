package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"catalog-audit/internal/ports"
)

const (
	defaultGitHubRequestsPerSecond = 10
	defaultGitHubBurst             = 5
)

// GitHubRepoAdapter answers repository questions through the GitHub REST
// API. An empty token yields an anonymous client.
type GitHubRepoAdapter struct {
	client  *github.Client
	limiter *rate.Limiter
}

type GitHubRepoOptions struct {
	Token     string
	UserAgent string
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise.
	BaseURL string
}

func NewGitHubRepoAdapter(opts GitHubRepoOptions) (GitHubRepoAdapter, error) {
	var httpClient *http.Client
	if token := strings.TrimSpace(opts.Token); token != "" {
		httpClient = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	client := github.NewClient(httpClient)
	if opts.UserAgent != "" {
		client.UserAgent = opts.UserAgent
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return GitHubRepoAdapter{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid github api url").
				WithCause(err)
		}
		client.BaseURL = parsed
	}
	return GitHubRepoAdapter{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(defaultGitHubRequestsPerSecond), defaultGitHubBurst),
	}, nil
}

func (a GitHubRepoAdapter) Exists(ctx context.Context, handle string) bool {
	owner, repo, ok := splitHandle(handle)
	if !ok || a.wait(ctx) != nil {
		return false
	}
	_, _, err := a.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		logGitHubError(ctx, err, handle, "")
		return false
	}
	return true
}

func (a GitHubRepoAdapter) GetFile(ctx context.Context, handle string, path string) ([]byte, bool) {
	owner, repo, ok := splitHandle(handle)
	if !ok || a.wait(ctx) != nil {
		return nil, false
	}
	file, _, _, err := a.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		logGitHubError(ctx, err, handle, path)
		return nil, false
	}
	if file == nil {
		return nil, false
	}
	content, err := file.GetContent()
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("repo", handle).Str("path", path).Msg("failed to decode file content")
		return nil, false
	}
	return []byte(content), true
}

func (a GitHubRepoAdapter) wait(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.Wait(ctx)
}

func splitHandle(handle string) (string, string, bool) {
	owner, repo, found := strings.Cut(handle, "/")
	if !found || owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

func logGitHubError(ctx context.Context, err error, handle string, path string) {
	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil && apiErr.Response.StatusCode == http.StatusNotFound {
		log.Ctx(ctx).Debug().Str("repo", handle).Str("path", path).Msg("not found on github")
		return
	}
	log.Ctx(ctx).Debug().Err(err).Str("repo", handle).Str("path", path).Msg("github request failed")
}

var _ ports.RepositoryPort = GitHubRepoAdapter{}
