package adapters

import (
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"catalog-audit/internal/ports"
	"catalog-audit/internal/types"
)

// YAMLReportAdapter writes one YAML document per catalog report. Every
// document starts with a separator so reports of several catalogs form a
// valid stream.
type YAMLReportAdapter struct{}

func NewYAMLReportAdapter() YAMLReportAdapter {
	return YAMLReportAdapter{}
}

type yamlCatalogReport struct {
	types.CatalogReport `yaml:",inline"`
	Filtered            bool `yaml:"filtered"`
}

func (a YAMLReportAdapter) WriteCatalog(w io.Writer, report types.CatalogReport, filtered bool) error {
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write yaml report").
			WithCause(err)
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(yamlCatalogReport{CatalogReport: report, Filtered: filtered}); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode yaml report").
			WithCause(err)
	}
	if err := encoder.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write yaml report").
			WithCause(err)
	}
	return nil
}

var _ ports.ReportPort = YAMLReportAdapter{}
