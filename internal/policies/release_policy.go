package policies

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"catalog-audit/internal/types"
)

// Chart annotation keys the audit looks for.
const (
	AnnotationTeam         = "application.giantswarm.io/team"
	AnnotationReadme       = "application.giantswarm.io/readme"
	AnnotationMetadata     = "application.giantswarm.io/metadata"
	AnnotationValuesSchema = "application.giantswarm.io/values-schema"
)

const (
	DefaultOrganization      = "giantswarm"
	DefaultIconPrefix        = "https://s.giantswarm.io/app-icons/"
	DefaultMaxReleaseAgeDays = 100

	ReadmePlaceholder = "{APP-NAME}"
	ReadmeMinLength   = 500
	ReadmeGoodLength  = 1000

	CodeownersFile     = "CODEOWNERS"
	ApplicationType    = "application"
	ModernAPIVersion   = "v2"
	LegacyAPIVersion   = "v1"
	DescriptionPattern = "helm chart for"
	AppNameSuffix      = "-app"
)

var (
	RequiredFields = []string{
		types.FieldAPIVersion,
		types.FieldCreated,
		types.FieldDescription,
		types.FieldDigest,
		types.FieldName,
		types.FieldVersion,
	}
	RecommendedFields = []string{
		types.FieldAppVersion,
		types.FieldIcon,
		types.FieldSources,
		types.FieldURLs,
	}
	SuggestedFields = []string{
		types.FieldKeywords,
		types.FieldKubeVersion,
		types.FieldMaintainers,
	}
	URLListFields = []string{
		types.FieldSources,
		types.FieldURLs,
	}
	RequiredAnnotations = []string{
		AnnotationMetadata,
		AnnotationReadme,
		AnnotationValuesSchema,
	}
	HygieneFiles = []string{
		"README.md",
		"LICENSE",
		"SECURITY.md",
		"DCO",
		"CONTRIBUTING.md",
	}
)

// ReleasePolicy is the compiled, read-only audit context shared by all
// validations of a run.
type ReleasePolicy struct {
	Organization      string
	IconPrefix        string
	MaxReleaseAgeDays int

	keywordPattern   *regexp.Regexp
	codeownerPattern *regexp.Regexp
}

func NewReleasePolicy(ctx context.Context, cfg types.Config) (ReleasePolicy, error) {
	policy := ReleasePolicy{
		Organization:      strings.TrimSpace(cfg.Organization),
		IconPrefix:        strings.TrimSpace(cfg.IconPrefix),
		MaxReleaseAgeDays: cfg.MaxReleaseAgeDays,
	}
	if policy.Organization == "" {
		policy.Organization = DefaultOrganization
	}
	if policy.IconPrefix == "" {
		policy.IconPrefix = DefaultIconPrefix
	}
	if policy.MaxReleaseAgeDays <= 0 {
		policy.MaxReleaseAgeDays = DefaultMaxReleaseAgeDays
	}
	keyword, err := compilePattern("keyword_pattern", cfg.KeywordPattern)
	if err != nil {
		return ReleasePolicy{}, err
	}
	codeowner, err := compilePattern("codeowner_team_pattern", cfg.CodeownerTeamPattern)
	if err != nil {
		return ReleasePolicy{}, err
	}
	policy.keywordPattern = keyword
	policy.codeownerPattern = codeowner
	assert.NotEmpty(ctx, policy.Organization, "organization must be set")
	return policy, nil
}

// HomePrefix is the URL prefix of repositories owned by the organization.
func (p ReleasePolicy) HomePrefix() string {
	return fmt.Sprintf("https://github.com/%s/", p.Organization)
}

// RepoHandle derives "org/repo" from a home URL owned by the organization.
func (p ReleasePolicy) RepoHandle(home string) (string, bool) {
	if !strings.HasPrefix(home, p.HomePrefix()) {
		return "", false
	}
	segments := strings.Split(home, "/")
	if len(segments) < 5 || segments[4] == "" {
		return "", false
	}
	return p.Organization + "/" + segments[4], true
}

// KeywordMatches reports whether the keyword matches the configured
// pattern at its start.
func (p ReleasePolicy) KeywordMatches(keyword string) bool {
	if p.keywordPattern == nil {
		return true
	}
	loc := p.keywordPattern.FindStringIndex(keyword)
	return loc != nil && loc[0] == 0
}

// CodeownerTeams extracts team names from CODEOWNERS content. When the
// pattern has a capture group the first group is the team name,
// otherwise the whole match is.
func (p ReleasePolicy) CodeownerTeams(content string) []string {
	if p.codeownerPattern == nil {
		return nil
	}
	matches := p.codeownerPattern.FindAllStringSubmatch(content, -1)
	teams := make([]string, 0, len(matches))
	for _, match := range matches {
		if len(match) > 1 {
			teams = append(teams, match[1])
			continue
		}
		teams = append(teams, match[0])
	}
	return teams
}

func compilePattern(name string, pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s must be set", name))
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid %s", name)).
			WithCause(err)
	}
	return compiled, nil
}
