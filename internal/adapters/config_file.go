package adapters

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"catalog-audit/internal/policies"
	"catalog-audit/internal/ports"
	"catalog-audit/internal/types"
)

const defaultHTTPTimeout = 10 * time.Second

type ConfigFileAdapter struct {
	Fs               afero.Fs
	DefaultUserAgent string
}

func NewConfigFileAdapter(fs afero.Fs, defaultUserAgent string) ConfigFileAdapter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return ConfigFileAdapter{Fs: fs, DefaultUserAgent: defaultUserAgent}
}

func (a ConfigFileAdapter) Load(path string) (types.Config, error) {
	if strings.TrimSpace(path) == "" {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("config path is empty")
	}
	exists, err := afero.Exists(a.Fs, path)
	if err != nil {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("config file not found: %s", path)).
			WithCause(err)
	}
	if !exists {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("config file not found: %s", path))
	}

	v := viper.New()
	v.SetFs(a.Fs)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("organization", policies.DefaultOrganization)
	v.SetDefault("icon_prefix", policies.DefaultIconPrefix)
	v.SetDefault("user_agent", a.DefaultUserAgent)
	v.SetDefault("http_timeout", defaultHTTPTimeout)
	v.SetDefault("max_release_age_days", policies.DefaultMaxReleaseAgeDays)
	if err := v.ReadInConfig(); err != nil {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse config file").
			WithCause(err)
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to decode config file").
			WithCause(err)
	}
	if err := validateConfig(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg types.Config) error {
	if strings.TrimSpace(cfg.KeywordPattern) == "" {
		return invalidConfig("keyword_pattern must be set")
	}
	if strings.TrimSpace(cfg.CodeownerTeamPattern) == "" {
		return invalidConfig("codeowner_team_pattern must be set")
	}
	if cfg.HTTPTimeout <= 0 {
		return invalidConfig("http_timeout must be positive")
	}
	if len(cfg.Catalogs) == 0 {
		return invalidConfig("no catalogs configured")
	}
	for i, catalog := range cfg.Catalogs {
		if strings.TrimSpace(catalog.Name) == "" {
			return invalidConfig(fmt.Sprintf("catalog %d has no name", i))
		}
		if strings.TrimSpace(catalog.URL) == "" {
			return invalidConfig(fmt.Sprintf("catalog %s has no url", catalog.Name))
		}
	}
	return nil
}

func invalidConfig(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

var _ ports.ConfigPort = ConfigFileAdapter{}
