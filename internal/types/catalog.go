package types

import "sort"

type CatalogSource struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url" yaml:"url"`
}

// CatalogIndex is a parsed catalog index.yaml, releases grouped by app
// name in publication order.
type CatalogIndex struct {
	Entries map[string][]Release
}

// AppNames returns the app names in sorted order.
func (c CatalogIndex) AppNames() []string {
	names := make([]string, 0, len(c.Entries))
	for name := range c.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type AppReport struct {
	Name   string           `yaml:"name"`
	Result ValidationResult `yaml:"result"`
}

type CatalogReport struct {
	Name     string      `yaml:"name"`
	URL      string      `yaml:"url"`
	AppCount int         `yaml:"app_count"`
	Apps     []AppReport `yaml:"apps"`
	Totals   Totals      `yaml:"totals"`
}

// URLStatus is the outcome of a reachability check. A transport failure
// is reported as unreachable with status code 0.
type URLStatus struct {
	Reachable  bool
	StatusCode int
}
