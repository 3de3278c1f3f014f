package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "codefinder/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// GitHubConfig holds settings for the GitHub search, metadata and README collaborators.
type GitHubConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Token is an optional personal access token for higher rate limits.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`

	// APIBase is the REST API root (default https://api.github.com).
	APIBase string `json:"api_base" yaml:"api_base" mapstructure:"api_base"`

	// PerPage bounds the number of repositories returned per search (default 10).
	PerPage int `json:"per_page" yaml:"per_page" mapstructure:"per_page"`

	// RequestsPerSecond paces outgoing calls. Zero disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// RateLimitBackoff is the fixed sleep before the single retry of a
	// rate-limited request (default 60s).
	RateLimitBackoff time.Duration `json:"rate_limit_backoff" yaml:"rate_limit_backoff" mapstructure:"rate_limit_backoff"`

	// Language is the language qualifier attached to exact queries (default "python").
	Language string `json:"language" yaml:"language" mapstructure:"language"`
}

// ResolverConfig holds settings for the resolution engine.
type ResolverConfig struct {
	// Qualifiers are appended to the two leading keywords by the contextual
	// strategy, one query each (default paper, implementation, official, code).
	Qualifiers []string `json:"qualifiers" yaml:"qualifiers" mapstructure:"qualifiers"`

	// Language mirrors GitHubConfig.Language for exact queries.
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// PerPage is the page-size bound passed to the searcher.
	PerPage int `json:"per_page" yaml:"per_page" mapstructure:"per_page"`

	// BlacklistFile is an optional YAML file of extra blacklist entries.
	BlacklistFile string `json:"blacklist_file,omitempty" yaml:"blacklist_file,omitempty" mapstructure:"blacklist_file"`

	// Audit enables the post-reconciliation audit of suspicious matches.
	Audit bool `json:"audit" yaml:"audit" mapstructure:"audit"`

	// RecentWindow is the age under which a repository counts as recently updated.
	RecentWindow time.Duration `json:"recent_window" yaml:"recent_window" mapstructure:"recent_window"`
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// DataDir contains codefinder.db and the export files.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// CacheTTL is how long cached search responses stay valid. Zero disables the cache.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// MetricsConfig holds settings for the Prometheus textfile output.
type MetricsConfig struct {
	// Textfile is the path the metrics are written to after a run. Empty disables it.
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty" mapstructure:"textfile"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	GitHub   GitHubConfig   `json:"github" yaml:"github" mapstructure:"github"`
	Resolver ResolverConfig `json:"resolver" yaml:"resolver" mapstructure:"resolver"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// Default configuration values.
const (
	DefaultAPIBase          = "https://api.github.com"
	DefaultUserAgent        = "codefinder/0.1"
	DefaultTimeout          = 30 * time.Second
	DefaultPerPage          = 10
	DefaultRateLimitBackoff = 60 * time.Second
	DefaultLanguage         = "python"
	DefaultRecentWindow     = 180 * 24 * time.Hour
	DefaultCacheTTL         = 7 * 24 * time.Hour
	DefaultDataDir          = "data"
)

// DefaultQualifiers are the contextual-strategy qualifiers.
var DefaultQualifiers = []string{"paper", "implementation", "official", "code"}

// DefaultPipelineConfig returns a configuration with every default applied.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		GitHub: GitHubConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			APIBase:           DefaultAPIBase,
			PerPage:           DefaultPerPage,
			RequestsPerSecond: 0.5,
			RateLimitBackoff:  DefaultRateLimitBackoff,
			Language:          DefaultLanguage,
		},
		Resolver: ResolverConfig{
			Qualifiers:   append([]string(nil), DefaultQualifiers...),
			Language:     DefaultLanguage,
			PerPage:      DefaultPerPage,
			Audit:        true,
			RecentWindow: DefaultRecentWindow,
		},
		Store: StoreConfig{
			DataDir:  DefaultDataDir,
			CacheTTL: DefaultCacheTTL,
		},
	}
}
