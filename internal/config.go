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

// Insight providers.
const (
	InsightsDisabled = "disabled"
	InsightsOpenAI   = "openai"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
	Archive   ArchiveConfig     `yaml:"archive"`
	Directory DirectoryConfig   `yaml:"directory"`
	Insights  InsightsConfig    `yaml:"insights"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Archive.Validate(); err != nil {
		return err
	}
	if err := c.Directory.Validate(); err != nil {
		return err
	}
	return c.Insights.Validate()
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

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds identity configuration.
//
// Mode controls how caller identity is resolved:
//   - "disabled" (default): the X-Hearth-User header is trusted as-is,
//     suitable for local dev.
//   - "token": Bearer tokens are mapped to account ids through Tokens.
type AuthConfig struct {
	Mode   string            `yaml:"mode"`
	Tokens map[string]string `yaml:"tokens"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && len(c.Tokens) == 0 {
		return fmt.Errorf("auth: mode is %q but no tokens are configured", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when token identity is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ArchiveConfig holds the genealogy archive import configuration. When
// Path is empty the archive subsystem is off.
type ArchiveConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the archive configuration.
func (c *ArchiveConfig) Validate() error {
	if c.Path == "" && c.Watch {
		return fmt.Errorf("archive: watch enabled but path is empty")
	}
	return nil
}

// Enabled returns true when the archive importer should run.
func (c *ArchiveConfig) Enabled() bool {
	return c.Path != ""
}

// DirectoryConfig points at the external profile directory used by the
// reconciliation worker. An empty BaseURL disables remote lookups.
type DirectoryConfig struct {
	BaseURL       string `yaml:"base_url"`
	RescanSeconds int    `yaml:"rescan_seconds"`
}

// Validate validates the directory configuration.
func (c *DirectoryConfig) Validate() error {
	if c.RescanSeconds == 0 {
		c.RescanSeconds = 60
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.RescanSeconds, validation.Min(1)),
	)
}

// InsightsConfig holds AI insight generation configuration.
type InsightsConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// Validate validates the insights configuration.
func (c *InsightsConfig) Validate() error {
	if c.Provider == "" {
		c.Provider = InsightsDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(InsightsDisabled, InsightsOpenAI)),
	); err != nil {
		return err
	}
	if c.Provider == InsightsOpenAI && c.APIKey == "" {
		return fmt.Errorf("insights: provider is %q but api_key is empty", InsightsOpenAI)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./hearth.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Insights: InsightsConfig{
			Provider: InsightsDisabled,
		},
	}
}
