package adapters

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"catalog-audit/internal/ports"
	"catalog-audit/internal/types"
)

const maxReadmeBytes = 4 << 20

// HTTPURLCheckerAdapter probes URLs with plain HTTP requests. HEAD
// requests do not follow redirects. HEAD outcomes are memoized for the
// lifetime of the adapter, so a URL shared by several apps is probed once
// per run.
type HTTPURLCheckerAdapter struct {
	HeadClient *http.Client
	GetClient  *http.Client
	UserAgent  string
	memo       *cache.Cache
}

func NewHTTPURLCheckerAdapter(userAgent string, timeout time.Duration) HTTPURLCheckerAdapter {
	return HTTPURLCheckerAdapter{
		HeadClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		GetClient: &http.Client{Timeout: timeout},
		UserAgent: userAgent,
		memo:      cache.New(cache.NoExpiration, 0),
	}
}

func (a HTTPURLCheckerAdapter) Head(ctx context.Context, url string) types.URLStatus {
	if a.memo != nil {
		if cached, ok := a.memo.Get(url); ok {
			return cached.(types.URLStatus)
		}
	}
	status := a.head(ctx, url)
	if a.memo != nil && ctx.Err() == nil {
		a.memo.Set(url, status, cache.NoExpiration)
	}
	return status
}

func (a HTTPURLCheckerAdapter) head(ctx context.Context, url string) types.URLStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("invalid url")
		return types.URLStatus{}
	}
	if a.UserAgent != "" {
		req.Header.Set("User-Agent", a.UserAgent)
	}
	resp, err := a.client(a.HeadClient).Do(req)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("head request failed")
		return types.URLStatus{}
	}
	_ = resp.Body.Close()
	return types.URLStatus{
		Reachable:  resp.StatusCode/100 == 2,
		StatusCode: resp.StatusCode,
	}
}

func (a HTTPURLCheckerAdapter) Get(ctx context.Context, url string) (int, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("invalid url")
		return 0, ""
	}
	resp, err := a.client(a.GetClient).Do(req)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("get request failed")
		return 0, ""
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("url", url).Msg("reading body failed")
		return resp.StatusCode, ""
	}
	return resp.StatusCode, string(body)
}

func (a HTTPURLCheckerAdapter) client(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

var _ ports.URLCheckerPort = HTTPURLCheckerAdapter{}
