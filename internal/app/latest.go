package app

import (
	"context"
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"catalog-audit/internal/core"
)

// Latest resolves the highest version among the given version strings.
func (s Service) Latest(ctx context.Context, req LatestRequest) (LatestResult, error) {
	if len(req.Versions) == 0 {
		return LatestResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one version is required")
	}
	latest, err := core.ResolveLatest(req.Versions)
	if err != nil {
		var invalid *core.InvalidVersionError
		if errors.As(err, &invalid) {
			return LatestResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(invalid.Error()).
				WithCause(err)
		}
		return LatestResult{}, err
	}
	log.Ctx(ctx).Debug().Int("versions", len(req.Versions)).Str("latest", latest).Msg("latest version resolved")
	return LatestResult{Version: latest}, nil
}
