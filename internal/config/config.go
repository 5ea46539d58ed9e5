// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrUnsupportedBrowser is returned when the configured browser name is not
// one of the recognized kinds. It aborts the run before any navigation.
var ErrUnsupportedBrowser = errors.New("unsupported browser")

// BrowserKind identifies which browser engine the session manager launches.
type BrowserKind string

const (
	BrowserChromium BrowserKind = "chromium"
	BrowserFirefox  BrowserKind = "firefox"
	BrowserWebKit   BrowserKind = "webkit"
)

// ParseBrowserKind validates a configured browser name. The match is
// case-insensitive; anything outside the three recognized kinds fails with
// ErrUnsupportedBrowser.
func ParseBrowserKind(name string) (BrowserKind, error) {
	switch BrowserKind(strings.ToLower(strings.TrimSpace(name))) {
	case BrowserChromium:
		return BrowserChromium, nil
	case BrowserFirefox:
		return BrowserFirefox, nil
	case BrowserWebKit:
		return BrowserWebKit, nil
	default:
		return "", fmt.Errorf("%w: %q (expected chromium, firefox or webkit)", ErrUnsupportedBrowser, name)
	}
}

// Config holds the entire application configuration. It is loaded once at
// startup and read-only for the duration of the run.
type Config struct {
	Target   TargetConfig   `mapstructure:"target" yaml:"target"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Network  NetworkConfig  `mapstructure:"network" yaml:"network"`
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Locators LocatorsConfig `mapstructure:"locators" yaml:"locators"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
}

// TargetConfig identifies the page under validation.
type TargetConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// ViewportConfig sets the simulated window dimensions used during rendering.
type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// BrowserConfig holds settings for the launched browser instance.
type BrowserConfig struct {
	Kind     string         `mapstructure:"kind" yaml:"kind"`
	Headless bool           `mapstructure:"headless" yaml:"headless"`
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	Args     []string       `mapstructure:"args" yaml:"args"`
}

// NetworkConfig tunes navigation behavior. The timeout is kept in
// milliseconds because that is the unit the TIMEOUT environment variable
// and the sibling implementations use.
type NetworkConfig struct {
	TimeoutMS int `mapstructure:"timeout_ms" yaml:"timeout_ms"`
}

// NavigationTimeout returns the navigation wait bound as a duration.
func (n NetworkConfig) NavigationTimeout() time.Duration {
	return time.Duration(n.TimeoutMS) * time.Millisecond
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// LocatorsConfig points at the declarative element spec file.
type LocatorsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ReportConfig controls where the human-readable report is written.
// Empty or "stdout" means standard output.
type ReportConfig struct {
	Output string `mapstructure:"output" yaml:"output"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Target --
	v.SetDefault("target.url", "https://www.electricmind.com/")

	// -- Browser --
	// The original automation runs headed so a human can watch the
	// validation; headless is opt-in.
	v.SetDefault("browser.kind", "chromium")
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.viewport.width", 1920)
	v.SetDefault("browser.viewport.height", 1080)

	// -- Network --
	v.SetDefault("network.timeout_ms", 30000)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "electricmind")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Locators --
	v.SetDefault("locators.file", "locators/locator.yaml")

	// -- Report --
	v.SetDefault("report.output", "stdout")
}

// BindEnvironment wires the recognized environment variable names onto their
// viper keys. Dotted keys are reachable under the EM_ prefix; the short bare
// names (BASEURL, BROWSER, ...) are the compatibility surface shared with the
// sibling implementations.
func BindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix("EM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("target.url", "EM_TARGET_URL", "BASEURL", "URL")
	v.BindEnv("browser.kind", "EM_BROWSER_KIND", "BROWSER")
	v.BindEnv("browser.headless", "EM_BROWSER_HEADLESS", "HEADLESS")
	v.BindEnv("network.timeout_ms", "EM_NETWORK_TIMEOUT_MS", "TIMEOUT")
	v.BindEnv("browser.viewport.width", "EM_BROWSER_VIEWPORT_WIDTH", "VIEWPORT_WIDTH")
	v.BindEnv("browser.viewport.height", "EM_BROWSER_VIEWPORT_HEIGHT", "VIEWPORT_HEIGHT")
	v.BindEnv("locators.file", "EM_LOCATORS_FILE", "LOCATORS")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BrowserKind returns the validated browser kind. Validate must have
// accepted the configuration before anything calls this.
func (c *Config) BrowserKind() BrowserKind {
	kind, err := ParseBrowserKind(c.Browser.Kind)
	if err != nil {
		panic(err)
	}
	return kind
}

// Validate checks the configuration for required fields and sane values.
// An unrecognized browser name fails here, before any browser is launched.
func (c *Config) Validate() error {
	if _, err := ParseBrowserKind(c.Browser.Kind); err != nil {
		return err
	}

	if c.Target.URL == "" {
		return fmt.Errorf("target.url is a required configuration field")
	}
	u, err := url.Parse(c.Target.URL)
	if err != nil {
		return fmt.Errorf("target.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target.url must use http or https, got %q", c.Target.URL)
	}

	if c.Network.TimeoutMS <= 0 {
		return fmt.Errorf("network.timeout_ms must be a positive integer")
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		return fmt.Errorf("browser.viewport dimensions must be positive")
	}
	if c.Locators.File == "" {
		return fmt.Errorf("locators.file is a required configuration field")
	}
	return nil
}
