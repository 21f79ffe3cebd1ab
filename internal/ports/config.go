package ports

import "catalog-audit/internal/types"

type ConfigPort interface {
	Load(path string) (types.Config, error)
}
