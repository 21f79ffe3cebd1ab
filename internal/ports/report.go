package ports

import (
	"io"

	"catalog-audit/internal/types"
)

type ReportPort interface {
	// WriteCatalog renders one catalog report. filtered is set when the
	// run was limited to selected apps.
	WriteCatalog(w io.Writer, report types.CatalogReport, filtered bool) error
}

type MetricsPort interface {
	Write(path string, reports []types.CatalogReport) error
}
