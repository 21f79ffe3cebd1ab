package adapters

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-audit/internal/types"
)

func TestMetricsTextfileAdapterWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	adapter := NewMetricsTextfileAdapter(fs)
	adapter.Clock = func() time.Time { return time.Unix(1760000000, 0) }

	err := adapter.Write("/var/lib/node-exporter/catalog_audit.prom", []types.CatalogReport{sampleCatalogReport()})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/var/lib/node-exporter/catalog_audit.prom")
	require.NoError(t, err)
	content := string(data)
	for _, line := range []string{
		`catalog_audit_findings{catalog="default",category="error"} 1`,
		`catalog_audit_findings{catalog="default",category="accolade"} 2`,
		`catalog_audit_apps{catalog="default"} 2`,
		`catalog_audit_apps_with_errors{catalog="default"} 1`,
		`catalog_audit_last_run_timestamp_seconds 1.76e+09`,
	} {
		assert.Contains(t, content, line)
	}
	exists, err := afero.Exists(fs, "/var/lib/node-exporter/catalog_audit.prom.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMetricsTextfileAdapterNoPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, NewMetricsTextfileAdapter(fs).Write("", nil))
}
