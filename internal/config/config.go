// Package config loads meatprint's application settings and its rules
// file.
//
// Application settings live in $MEATPRINT_HOME/config.yaml (default
// ~/.meatprint/config.yaml). A project-local .meatprint.yaml found in the
// working directory or one of its parents is shallow-merged on top, and
// MEATPRINT_* environment variables override both.
//
// The rules file holds the keyword sets, meat vocabulary, vendor registry
// and emission factors. A default is embedded in the binary.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Config.
const (
	EnvHome           = "MEATPRINT_HOME"
	EnvRules          = "MEATPRINT_RULES"
	EnvOutput         = "MEATPRINT_OUTPUT"
	EnvConcurrency    = "MEATPRINT_CONCURRENCY"
	EnvCacheEnabled   = "MEATPRINT_CACHE_ENABLED"
	EnvLogLevel       = "MEATPRINT_LOG_LEVEL"
	EnvLogFormat      = "MEATPRINT_LOG_FORMAT"
	EnvMetricsFile    = "MEATPRINT_METRICS_FILE"
	configFileName    = "config.yaml"
	defaultDirName    = ".meatprint"
	maxConcurrency    = 256
	defaultCacheTTL   = "168h"
	projectConfigName = ".meatprint.yaml"
)

// Config is the application configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Cache    CacheConfig    `yaml:"cache"`
	Rules    RulesConfig    `yaml:"rules"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// path is where Save writes.
	path string
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// DefaultFormat is table, json or ndjson.
	DefaultFormat string `yaml:"default_format"`

	// Locale selects category labels: en or fr.
	Locale string `yaml:"locale"`

	// Color is auto, always or never.
	Color string `yaml:"color"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// PipelineConfig controls document processing.
type PipelineConfig struct {
	// Concurrency is the number of documents processed at once; 0 means
	// one per CPU.
	Concurrency int `yaml:"concurrency"`
}

// CacheConfig controls the extracted-text cache.
type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Directory string `yaml:"directory,omitempty"`
	TTL       string `yaml:"ttl"`
}

// RulesConfig points at a custom rules file. Empty uses the embedded rules.
type RulesConfig struct {
	File string `yaml:"file,omitempty"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: "table",
			Locale:        "en",
			Color:         "auto",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     defaultCacheTTL,
		},
	}
}

// New returns the effective configuration: defaults, then the config file
// if present, then environment overrides. Problems reading the file are
// ignored so that a broken file never prevents `config init --force`;
// `config validate` reports them.
func New() *Config {
	cfg := Defaults()
	if path, err := ConfigPath(); err == nil {
		cfg.path = path
		_ = cfg.loadFile(path)
	}
	_ = cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// Load reads the config file at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	cfg.path = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &ConfigError{Source: path, Err: err}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Source: path, Err: fmt.Errorf("parsing YAML: %w", err)}
	}
	return nil
}

// Path returns the file the configuration is saved to.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes the configuration to Path, creating its directory.
func (c *Config) Save() error {
	if c.path == "" {
		return &ConfigError{Source: "config", Err: fmt.Errorf("no config path set")}
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv applies MEATPRINT_* overrides. Invalid numeric or boolean
// values are reported but the remaining overrides are still applied.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var firstErr error
	note := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if v, ok := lookup(EnvRules); ok && v != "" {
		c.Rules.File = v
	}
	if v, ok := lookup(EnvOutput); ok && v != "" {
		c.Output.DefaultFormat = v
	}
	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			note(&ConfigError{Source: EnvConcurrency, Err: err})
		} else {
			c.Pipeline.Concurrency = n
		}
	}
	if v, ok := lookup(EnvCacheEnabled); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			note(&ConfigError{Source: EnvCacheEnabled, Err: err})
		} else {
			c.Cache.Enabled = b
		}
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvMetricsFile); ok && v != "" {
		c.Metrics.Textfile = v
	}
	return firstErr
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// Validate checks the output section.
func (o OutputConfig) Validate() error {
	switch strings.ToLower(o.DefaultFormat) {
	case "table", "json", "ndjson":
	default:
		return &ConfigError{Source: "output.default_format", Err: fmt.Errorf("unsupported format %q", o.DefaultFormat)}
	}
	switch strings.ToLower(o.Locale) {
	case "", "en", "fr":
	default:
		return &ConfigError{Source: "output.locale", Err: fmt.Errorf("unsupported locale %q", o.Locale)}
	}
	switch strings.ToLower(o.Color) {
	case "", "auto", "always", "never":
	default:
		return &ConfigError{Source: "output.color", Err: fmt.Errorf("unsupported color mode %q", o.Color)}
	}
	return nil
}

// Validate checks the logging section.
func (l LoggingConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return &ConfigError{Source: "logging.level", Err: fmt.Errorf("unknown level %q", l.Level)}
	}
	switch strings.ToLower(l.Format) {
	case "", "console", "json":
	default:
		return &ConfigError{Source: "logging.format", Err: fmt.Errorf("unknown format %q", l.Format)}
	}
	return nil
}

// Validate checks the pipeline section.
func (p PipelineConfig) Validate() error {
	if p.Concurrency < 0 || p.Concurrency > maxConcurrency {
		return &ConfigError{
			Source: "pipeline.concurrency",
			Err:    fmt.Errorf("must be between 0 and %d, got %d", maxConcurrency, p.Concurrency),
		}
	}
	return nil
}

// EffectiveConcurrency resolves 0 to the number of CPUs.
func (p PipelineConfig) EffectiveConcurrency() int {
	if p.Concurrency == 0 {
		return runtime.NumCPU()
	}
	return p.Concurrency
}

// Validate checks the cache section.
func (c CacheConfig) Validate() error {
	if _, err := c.TTLDuration(); err != nil {
		return &ConfigError{Source: "cache.ttl", Err: err}
	}
	return nil
}

// TTLDuration parses TTL, defaulting to one week.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	ttl := c.TTL
	if ttl == "" {
		ttl = defaultCacheTTL
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", c.TTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

// ResolveDirectory returns the configured cache directory or the default
// under the config directory.
func (c CacheConfig) ResolveDirectory() (string, error) {
	if c.Directory != "" {
		return c.Directory, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// GetConfigDir returns $MEATPRINT_HOME or ~/.meatprint.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, defaultDirName), nil
}

// ConfigPath returns the path of the user config file.
func ConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
