package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"sigs.k8s.io/yaml"

	"catalog-audit/internal/ports"
	"catalog-audit/internal/shared"
	"catalog-audit/internal/types"
)

const maxCatalogIndexBytes = 256 << 20

// CatalogIndexHTTPAdapter fetches and parses a chart repository index.yaml.
type CatalogIndexHTTPAdapter struct {
	Client    *http.Client
	UserAgent string
}

type catalogIndexDocument struct {
	Entries map[string][]map[string]any `json:"entries"`
}

func NewCatalogIndexHTTPAdapter(userAgent string, timeout time.Duration) CatalogIndexHTTPAdapter {
	return CatalogIndexHTTPAdapter{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func (a CatalogIndexHTTPAdapter) Load(ctx context.Context, url string) (types.CatalogIndex, error) {
	data, err := a.fetch(ctx, url)
	if err != nil {
		return types.CatalogIndex{}, err
	}
	return ParseCatalogIndex(data)
}

// ParseCatalogIndex decodes index.yaml content. Apps without releases are
// kept so they still show up in the report.
func ParseCatalogIndex(data []byte) (types.CatalogIndex, error) {
	var doc catalogIndexDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.CatalogIndex{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse catalog index").
			WithCause(err)
	}
	if doc.Entries == nil {
		return types.CatalogIndex{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse catalog index: no entries")
	}
	index := types.CatalogIndex{Entries: make(map[string][]types.Release, len(doc.Entries))}
	for name, records := range doc.Entries {
		releases := make([]types.Release, 0, len(records))
		for _, record := range records {
			releases = append(releases, types.NewRelease(record))
		}
		index.Entries[name] = releases
	}
	return index, nil
}

func (a CatalogIndexHTTPAdapter) fetch(ctx context.Context, url string) ([]byte, error) {
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to fetch catalog index").
			WithCause(err)
	}
	if a.UserAgent != "" {
		req.Header.Set("User-Agent", a.UserAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to fetch catalog index").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to fetch catalog index: status %d", resp.StatusCode)).
			WithCause(shared.HTTPStatusError(resp.StatusCode, url))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogIndexBytes))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to fetch catalog index").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("url", url).Int("bytes", len(data)).Msg("catalog index fetched")
	return data, nil
}

var _ ports.CatalogIndexPort = CatalogIndexHTTPAdapter{}
