package types

import (
	"fmt"
	"sort"
	"time"
)

// Chart metadata keys as published in a catalog index entry.
const (
	FieldAPIVersion   = "apiVersion"
	FieldCreated      = "created"
	FieldDescription  = "description"
	FieldDigest       = "digest"
	FieldName         = "name"
	FieldVersion      = "version"
	FieldAppVersion   = "appVersion"
	FieldIcon         = "icon"
	FieldSources      = "sources"
	FieldURLs         = "urls"
	FieldKeywords     = "keywords"
	FieldKubeVersion  = "kubeVersion"
	FieldMaintainers  = "maintainers"
	FieldDependencies = "dependencies"
	FieldType         = "type"
	FieldDeprecated   = "deprecated"
	FieldAnnotations  = "annotations"
	FieldHome         = "home"
)

type Maintainer struct {
	Name   string
	URL    string
	HasURL bool
}

// Release is one versioned entry of an app in a catalog index. Field
// presence is tracked separately from the value because an absent field
// and an empty one are audited differently.
type Release struct {
	present map[string]struct{}

	APIVersion   string
	Created      string
	Description  string
	Digest       string
	Name         string
	Version      string
	AppVersion   string
	Icon         string
	Home         string
	KubeVersion  string
	Type         string
	Sources      []string
	URLs         []string
	Keywords     []string
	Maintainers  []Maintainer
	Dependencies []any
	Deprecated   bool
	Annotations  map[string]string
}

// NewRelease builds a Release from an untyped index record.
func NewRelease(raw map[string]any) Release {
	release := Release{present: make(map[string]struct{}, len(raw))}
	for key, value := range raw {
		release.present[key] = struct{}{}
		switch key {
		case FieldAPIVersion:
			release.APIVersion = asString(value)
		case FieldCreated:
			release.Created = asString(value)
		case FieldDescription:
			release.Description = asString(value)
		case FieldDigest:
			release.Digest = asString(value)
		case FieldName:
			release.Name = asString(value)
		case FieldVersion:
			release.Version = asString(value)
		case FieldAppVersion:
			release.AppVersion = asString(value)
		case FieldIcon:
			release.Icon = asString(value)
		case FieldHome:
			release.Home = asString(value)
		case FieldKubeVersion:
			release.KubeVersion = asString(value)
		case FieldType:
			release.Type = asString(value)
		case FieldSources:
			release.Sources = asStrings(value)
		case FieldURLs:
			release.URLs = asStrings(value)
		case FieldKeywords:
			release.Keywords = asStrings(value)
		case FieldMaintainers:
			release.Maintainers = asMaintainers(value)
		case FieldDependencies:
			if list, ok := value.([]any); ok {
				release.Dependencies = list
			}
		case FieldDeprecated:
			flag, ok := value.(bool)
			release.Deprecated = ok && flag
		case FieldAnnotations:
			release.Annotations = asStringMap(value)
		}
	}
	return release
}

// Has reports whether the field was present in the index record.
func (r Release) Has(field string) bool {
	_, ok := r.present[field]
	return ok
}

// Fields returns the present field names in sorted order.
func (r Release) Fields() []string {
	out := make([]string, 0, len(r.present))
	for key := range r.present {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Annotation returns the annotation value and whether it is set.
func (r Release) Annotation(key string) (string, bool) {
	if r.Annotations == nil {
		return "", false
	}
	value, ok := r.Annotations[key]
	return value, ok
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case float64:
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprint(v)
	}
}

func asStrings(value any) []string {
	list, ok := value.([]any)
	if !ok {
		if typed, ok := value.([]string); ok {
			return append([]string{}, typed...)
		}
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, asString(item))
	}
	return out
}

func asMaintainers(value any) []Maintainer {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]Maintainer, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		maintainer := Maintainer{Name: asString(entry["name"])}
		if url, ok := entry["url"]; ok {
			maintainer.URL = asString(url)
			maintainer.HasURL = true
		}
		out = append(out, maintainer)
	}
	return out
}

func asStringMap(value any) map[string]string {
	out := map[string]string{}
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			out[key] = asString(item)
		}
	case map[string]string:
		for key, item := range v {
			out[key] = item
		}
	}
	return out
}
