// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/codefinder/internal/secrets"
	"github.com/pdiddy/codefinder/pkg/types"
)

// setDefaults registers every configuration key with its default so that
// environment overrides resolve through Unmarshal.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()

	v.SetDefault("github.token", "")
	v.SetDefault("github.api_base", d.GitHub.APIBase)
	v.SetDefault("github.per_page", d.GitHub.PerPage)
	v.SetDefault("github.timeout", d.GitHub.Timeout)
	v.SetDefault("github.user_agent", d.GitHub.UserAgent)
	v.SetDefault("github.requests_per_second", d.GitHub.RequestsPerSecond)
	v.SetDefault("github.rate_limit_backoff", d.GitHub.RateLimitBackoff)
	v.SetDefault("github.language", d.GitHub.Language)

	v.SetDefault("resolver.qualifiers", d.Resolver.Qualifiers)
	// language and per_page follow the github section when unset.
	_ = v.BindEnv("resolver.language")
	_ = v.BindEnv("resolver.per_page")
	v.SetDefault("resolver.blacklist_file", "")
	v.SetDefault("resolver.audit", d.Resolver.Audit)
	v.SetDefault("resolver.recent_window", d.Resolver.RecentWindow)

	v.SetDefault("store.data_dir", d.Store.DataDir)
	v.SetDefault("store.cache_ttl", d.Store.CacheTTL)

	v.SetDefault("metrics.textfile", "")
}

// loadConfig decodes the pipeline configuration from v and fills the
// GitHub token from secrets when the config leaves it empty. The resolver
// follows the GitHub language and page size unless set on its own.
func loadConfig(v *viper.Viper, s secrets.Set) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = s.GitHubToken()
	}
	if cfg.Resolver.Language == "" {
		cfg.Resolver.Language = cfg.GitHub.Language
	}
	if cfg.Resolver.PerPage <= 0 {
		cfg.Resolver.PerPage = cfg.GitHub.PerPage
	}
	if len(cfg.Resolver.Qualifiers) == 0 {
		cfg.Resolver.Qualifiers = append([]string(nil), types.DefaultQualifiers...)
	}
	return cfg, nil
}
