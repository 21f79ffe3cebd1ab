package adapters

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-audit/internal/types"
)

const sampleIndex = `apiVersion: v1
entries:
  hello:
  - apiVersion: v2
    created: 2026-10-01T08:00:00.123456789Z
    name: hello
    version: 1.4.0
    home: https://github.com/acme/hello
    keywords: [greeting]
    maintainers:
    - name: Jo
      url: https://example.com/jo
    annotations:
      application.giantswarm.io/team: team-hello
  - name: hello
    version: 1.3.0
  empty: []
generated: "2026-10-17T00:00:00Z"
`

func TestParseCatalogIndex(t *testing.T) {
	index, err := ParseCatalogIndex([]byte(sampleIndex))
	require.NoError(t, err)

	assert.Equal(t, []string{"empty", "hello"}, index.AppNames())
	require.Len(t, index.Entries["hello"], 2)
	assert.Empty(t, index.Entries["empty"])

	latest := index.Entries["hello"][0]
	assert.True(t, latest.Has(types.FieldCreated))
	assert.Equal(t, "2026-10-01T08:00:00.123456789Z", latest.Created)
	assert.Equal(t, "1.4.0", latest.Version)
	assert.Equal(t, []string{"greeting"}, latest.Keywords)
	assert.Equal(t, []types.Maintainer{{Name: "Jo", URL: "https://example.com/jo", HasURL: true}}, latest.Maintainers)
	team, ok := latest.Annotation("application.giantswarm.io/team")
	assert.True(t, ok)
	assert.Equal(t, "team-hello", team)
	assert.False(t, index.Entries["hello"][1].Has(types.FieldHome))
}

func TestParseCatalogIndexRejectsGarbage(t *testing.T) {
	for _, content := range []string{"entries: [unterminated", "apiVersion: v1\n"} {
		_, err := ParseCatalogIndex([]byte(content))
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
		assert.Contains(t, err.Error(), "failed to parse catalog index")
	}
}

func TestCatalogIndexHTTPAdapterLoad(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.UserAgent()
		if r.URL.Path != "/index.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleIndex))
	}))
	defer server.Close()

	adapter := NewCatalogIndexHTTPAdapter("catalog-audit/test", 5*time.Second)

	index, err := adapter.Load(t.Context(), server.URL+"/index.yaml")
	require.NoError(t, err)
	assert.Len(t, index.Entries, 2)
	assert.Equal(t, "catalog-audit/test", userAgent)

	_, err = adapter.Load(t.Context(), server.URL+"/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch catalog index")
}
