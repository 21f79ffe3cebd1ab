package types

import "time"

// Config is the audit configuration file.
type Config struct {
	Organization         string          `mapstructure:"organization"`
	IconPrefix           string          `mapstructure:"icon_prefix"`
	KeywordPattern       string          `mapstructure:"keyword_pattern"`
	CodeownerTeamPattern string          `mapstructure:"codeowner_team_pattern"`
	UserAgent            string          `mapstructure:"user_agent"`
	GitHubAPIURL         string          `mapstructure:"github_api_url"`
	HTTPTimeout          time.Duration   `mapstructure:"http_timeout"`
	MaxReleaseAgeDays    int             `mapstructure:"max_release_age_days"`
	Catalogs             []CatalogSource `mapstructure:"catalogs"`
}
