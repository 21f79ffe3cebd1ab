package app

import (
	"io"

	"catalog-audit/internal/types"
)

type AuditRequest struct {
	ConfigPath  string
	TokenPath   string
	AppNames    []string
	Format      string
	Workers     int
	MetricsFile string
	Out         io.Writer
}

type AuditResult struct {
	Catalogs []types.CatalogReport
	Totals   types.Totals
}

type LatestRequest struct {
	Versions []string
}

type LatestResult struct {
	Version string
}
