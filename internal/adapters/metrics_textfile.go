package adapters

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/afero"

	"catalog-audit/internal/ports"
	"catalog-audit/internal/types"
)

const metricsNamespace = "catalog_audit"

// MetricsTextfileAdapter writes run metrics in the Prometheus text format,
// suitable for the node exporter textfile collector. The file is replaced
// atomically.
type MetricsTextfileAdapter struct {
	Fs    afero.Fs
	Clock func() time.Time
}

func NewMetricsTextfileAdapter(fs afero.Fs) MetricsTextfileAdapter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return MetricsTextfileAdapter{Fs: fs, Clock: time.Now}
}

func (a MetricsTextfileAdapter) Write(path string, reports []types.CatalogReport) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	registry := prometheus.NewRegistry()
	findings := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "findings",
		Help:      "Number of findings of the last audit run by catalog and category.",
	}, []string{"catalog", "category"})
	apps := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "apps",
		Help:      "Number of apps audited in the last run by catalog.",
	}, []string{"catalog"})
	failing := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "apps_with_errors",
		Help:      "Number of apps with at least one error finding by catalog.",
	}, []string{"catalog"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed audit run.",
	})
	registry.MustRegister(findings, apps, failing, lastRun)

	for _, report := range reports {
		findings.WithLabelValues(report.Name, string(types.CategoryError)).Set(float64(report.Totals.Errors))
		findings.WithLabelValues(report.Name, string(types.CategoryWarning)).Set(float64(report.Totals.Warnings))
		findings.WithLabelValues(report.Name, string(types.CategorySuggestion)).Set(float64(report.Totals.Suggestions))
		findings.WithLabelValues(report.Name, string(types.CategoryAccolade)).Set(float64(report.Totals.Accolades))
		apps.WithLabelValues(report.Name).Set(float64(len(report.Apps)))
		withErrors := 0
		for _, app := range report.Apps {
			if len(app.Result.Errors) > 0 {
				withErrors++
			}
		}
		failing.WithLabelValues(report.Name).Set(float64(withErrors))
	}
	now := time.Now
	if a.Clock != nil {
		now = a.Clock
	}
	lastRun.Set(float64(now().Unix()))

	families, err := registry.Gather()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to gather metrics").
			WithCause(err)
	}
	var buf bytes.Buffer
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, family); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode metrics").
				WithCause(err)
		}
	}
	return a.replace(path, buf.Bytes())
}

func (a MetricsTextfileAdapter) replace(path string, data []byte) error {
	if err := a.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create metrics directory").
			WithCause(err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(a.Fs, tmp, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write metrics file").
			WithCause(err)
	}
	if err := a.Fs.Rename(tmp, path); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to replace metrics file").
			WithCause(err)
	}
	return nil
}

var _ ports.MetricsPort = MetricsTextfileAdapter{}
