// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/pinlogin/pkg/cookies"
	"github.com/xkilldash9x/pinlogin/pkg/credentials"
	"github.com/xkilldash9x/pinlogin/pkg/login"
)

// EnvPrefix is prepended to every configuration key read from the environment,
// e.g. PINLOGIN_BROWSER_HEADLESS.
const EnvPrefix = "PINLOGIN"

// Interface defines read access to the application configuration.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Login() LoginConfig
	Credentials() CredentialsConfig
	Output() OutputConfig
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	BrowserCfg     BrowserConfig     `mapstructure:"browser" yaml:"browser"`
	LoginCfg       LoginConfig       `mapstructure:"login" yaml:"login"`
	CredentialsCfg CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`
	OutputCfg      OutputConfig      `mapstructure:"output" yaml:"output"`
}

var _ Interface = (*Config)(nil)

func (c *Config) Logger() LoggerConfig           { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig         { return c.BrowserCfg }
func (c *Config) Login() LoginConfig             { return c.LoginCfg }
func (c *Config) Credentials() CredentialsConfig { return c.CredentialsCfg }
func (c *Config) Output() OutputConfig           { return c.OutputCfg }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the ANSI color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the browser launched per login attempt.
type BrowserConfig struct {
	Headless bool `mapstructure:"headless" yaml:"headless"`
	// RequestTimeout bounds each page operation. Zero uses the engine default.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	// LaunchTimeout bounds browser start. Zero uses the engine default.
	LaunchTimeout  time.Duration `mapstructure:"launch_timeout" yaml:"launch_timeout"`
	ExecutablePath string        `mapstructure:"executable_path" yaml:"executable_path"`
	Args           []string      `mapstructure:"args" yaml:"args"`
}

// LoginConfig describes the target service's login page.
type LoginConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
	// CookieDomain filters extracted cookies. Empty means the login URL's registrable domain.
	CookieDomain string          `mapstructure:"cookie_domain" yaml:"cookie_domain"`
	PollInterval time.Duration   `mapstructure:"poll_interval" yaml:"poll_interval"`
	Selectors    login.Selectors `mapstructure:"selectors" yaml:"selectors"`
	Markers      login.Markers   `mapstructure:"markers" yaml:"markers"`
}

// CredentialsConfig selects where credentials come from. Sources are tried
// in order: Identifier, environment, keyring, interactive prompt.
type CredentialsConfig struct {
	Identifier     string `mapstructure:"identifier" yaml:"identifier"`
	IdentifierEnv  string `mapstructure:"identifier_env" yaml:"identifier_env"`
	SecretEnv      string `mapstructure:"secret_env" yaml:"secret_env"`
	KeyringService string `mapstructure:"keyring_service" yaml:"keyring_service"`
	Interactive    bool   `mapstructure:"interactive" yaml:"interactive"`
}

// OutputConfig controls how cookies are written.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	// File is the destination; empty or "-" means stdout.
	File string `mapstructure:"file" yaml:"file"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pinlogin")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.request_timeout", "5s")
	v.SetDefault("browser.launch_timeout", "30s")
	v.SetDefault("browser.executable_path", "")
	v.SetDefault("browser.args", []string{})

	// -- Login --
	selectors := login.DefaultSelectors()
	markers := login.DefaultMarkers()
	v.SetDefault("login.url", login.DefaultLoginURL)
	v.SetDefault("login.cookie_domain", "")
	v.SetDefault("login.poll_interval", login.DefaultPollInterval.String())
	v.SetDefault("login.selectors.identifier", selectors.Identifier)
	v.SetDefault("login.selectors.secret", selectors.Secret)
	v.SetDefault("login.selectors.submit", selectors.Submit)
	v.SetDefault("login.markers.authenticated.selectors", markers.Authenticated.Selectors)
	v.SetDefault("login.markers.authenticated.url_contains", markers.Authenticated.URLContains)
	v.SetDefault("login.markers.rejected.selectors", markers.Rejected.Selectors)
	v.SetDefault("login.markers.rejected.url_contains", markers.Rejected.URLContains)
	v.SetDefault("login.markers.challenge.selectors", markers.Challenge.Selectors)
	v.SetDefault("login.markers.challenge.url_contains", markers.Challenge.URLContains)

	// -- Credentials --
	v.SetDefault("credentials.identifier", "")
	v.SetDefault("credentials.identifier_env", credentials.DefaultIdentifierEnv)
	v.SetDefault("credentials.secret_env", credentials.DefaultSecretEnv)
	v.SetDefault("credentials.keyring_service", "")
	v.SetDefault("credentials.interactive", true)

	// -- Output --
	v.SetDefault("output.format", string(cookies.FormatJSON))
	v.SetDefault("output.file", "")
}

// BindEnv makes every known key overridable from PINLOGIN_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper creates a validated configuration from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.BrowserCfg.Validate(); err != nil {
		return fmt.Errorf("browser configuration invalid: %w", err)
	}
	if err := c.LoginCfg.Validate(); err != nil {
		return fmt.Errorf("login configuration invalid: %w", err)
	}
	if _, err := cookies.ParseFormat(c.OutputCfg.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	return nil
}

// Validate checks the browser timeouts. Zero means "engine default".
func (b *BrowserConfig) Validate() error {
	if b.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if b.LaunchTimeout < 0 {
		return fmt.Errorf("launch_timeout must not be negative")
	}
	return nil
}

// Validate checks the login page description.
func (l *LoginConfig) Validate() error {
	u, err := url.Parse(l.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("url %q must be an absolute URL", l.URL)
	}
	if l.PollInterval <= 0 {
		return errors.New("poll_interval must be a positive duration")
	}
	if err := l.Selectors.Validate(); err != nil {
		return fmt.Errorf("selectors: %w", err)
	}
	if err := l.Markers.Validate(); err != nil {
		return fmt.Errorf("markers: %w", err)
	}
	return nil
}
