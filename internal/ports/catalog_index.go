package ports

import (
	"context"

	"catalog-audit/internal/types"
)

type CatalogIndexPort interface {
	Load(ctx context.Context, url string) (types.CatalogIndex, error)
}
