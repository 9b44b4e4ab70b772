package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Fetch   FetchConfig       `yaml:"fetch"`
	Search  SearchConfig      `yaml:"search"`
	Sources SourcesConfig     `yaml:"sources"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Fetch.Validate(); err != nil {
		return err
	}
	return c.Search.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds the case cache database configuration. An empty
// path disables the cache: every search runs live and write-back is
// skipped.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// FetchConfig tunes the shared outbound HTTP client. All adapters go
// through one client, so the politeness settings are process-wide.
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
	RetryBackoffMS int    `yaml:"retry_backoff_ms"`
	MinIntervalMS  int    `yaml:"min_interval_ms"`
	MaxInFlight    int    `yaml:"max_in_flight"`
	UserAgent      string `yaml:"user_agent"`
}

// Validate validates the fetch configuration.
func (c *FetchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(10)),
		validation.Field(&c.MaxInFlight, validation.Required, validation.Min(1)),
	)
}

// SearchConfig tunes the aggregation engine.
type SearchConfig struct {
	// MaxConcurrency bounds the adapter fan-out per request. Zero means
	// one goroutine per adapter.
	MaxConcurrency int `yaml:"max_concurrency"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxConcurrency, validation.Min(0)),
	)
}

// SourcesConfig overrides source adapter endpoints. Empty values select
// the production sites; the commercial adapter stays disabled until a
// proxy URL is set.
type SourcesConfig struct {
	ConcourtURL        string `yaml:"concourt_url"`
	SCAURL             string `yaml:"sca_url"`
	ZACCURL            string `yaml:"zacc_url"`
	CommercialProxyURL string `yaml:"commercial_proxy_url"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 4000,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./caselink.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 15,
			MaxRetries:     2,
			RetryBackoffMS: 500,
			MinIntervalMS:  250,
			MaxInFlight:    4,
		},
	}
}
