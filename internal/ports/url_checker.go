package ports

import (
	"context"

	"catalog-audit/internal/types"
)

// URLCheckerPort probes URLs referenced by a release. Implementations
// never return transport errors: a failed request is an unreachable URL
// with status code 0.
type URLCheckerPort interface {
	// Head reports whether the URL answers a HEAD request with a 2xx status.
	Head(ctx context.Context, url string) types.URLStatus

	// Get fetches the URL body. The status code is 0 when the request
	// could not be made at all.
	Get(ctx context.Context, url string) (int, string)
}
