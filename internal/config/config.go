// Package config loads runtime settings from a YAML, JSON or TOML file, an
// optional .env file and INTAKE_* environment variables, in that order of
// increasing precedence. Command-line flags are applied last via Apply.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	theme "github.com/goliatone/go-theme"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/internal/logging"
	"github.com/goliatone/go-intake/pkg/workflow"
)

// DefaultPath is read when no explicit path is given and the file exists.
const DefaultPath = "intake.yaml"

// Environment variable names.
const (
	EnvEndpoint       = "INTAKE_ENDPOINT"
	EnvEnv            = "INTAKE_ENV"
	EnvAddr           = "INTAKE_ADDR"
	EnvMetricsEnabled = "INTAKE_METRICS_ENABLED"
	EnvMetricsPath    = "INTAKE_METRICS_PATH"
	EnvTheme          = "INTAKE_THEME"
	EnvThemeVariant   = "INTAKE_THEME_VARIANT"
)

type Config struct {
	Env      string `yaml:"env" json:"env" toml:"env"`
	Endpoint string `yaml:"endpoint" json:"endpoint" toml:"endpoint"`
	// RequestTimeout bounds the outbound POST in seconds. Zero waits
	// indefinitely.
	RequestTimeout int           `yaml:"request_timeout" json:"request_timeout" toml:"request_timeout"`
	Server         ServerConfig  `yaml:"server" json:"server" toml:"server"`
	Metrics        MetricsConfig `yaml:"metrics" json:"metrics" toml:"metrics"`
	Theme          ThemeConfig   `yaml:"theme" json:"theme" toml:"theme"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Addr            string `yaml:"addr" json:"addr" toml:"addr"`
	ReadTimeout     int    `yaml:"read_timeout" json:"read_timeout" toml:"read_timeout"`
	WriteTimeout    int    `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" json:"shutdown_timeout" toml:"shutdown_timeout"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled" toml:"enabled"`
	Path      string `yaml:"path" json:"path" toml:"path"`
	Namespace string `yaml:"namespace" json:"namespace" toml:"namespace"`
}

// ThemeConfig selects a go-theme name/variant. Tokens become CSS custom
// properties: a token "intake-brand" is emitted as "--intake-brand".
type ThemeConfig struct {
	Name    string            `yaml:"name" json:"name" toml:"name"`
	Variant string            `yaml:"variant" json:"variant" toml:"variant"`
	Tokens  map[string]string `yaml:"tokens" json:"tokens" toml:"tokens"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Env:      logging.EnvDevelopment,
		Endpoint: workflow.DefaultEndpoint,
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 10,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "intake",
		},
	}
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	envFiles []string
	lookup   func(string) (string, bool)
}

// WithEnvFiles replaces the default ".env" list. Missing files are skipped.
func WithEnvFiles(files ...string) Option {
	return func(l *loader) {
		l.envFiles = files
	}
}

// WithLookup replaces os.LookupEnv.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(l *loader) {
		if fn != nil {
			l.lookup = fn
		}
	}
}

// Load builds a Config from defaults, the file at path (if non-empty), the
// env files and the environment, then validates it.
func Load(path string, options ...Option) (*Config, error) {
	l := &loader{
		envFiles: []string{".env"},
		lookup:   os.LookupEnv,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	cfg := Default()
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(l.envFiles); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(l.lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvePath returns explicit when set, otherwise DefaultPath when it
// exists, otherwise "".
func ResolvePath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Parse(data, filepath.Ext(path), cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Parse decodes data into cfg. ".toml" selects TOML; anything else is tried
// as JSON first and then as YAML.
func Parse(data []byte, ext string, cfg *Config) error {
	if strings.EqualFold(ext, ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return nil
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, cfg); err == nil {
			return nil
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func loadEnvFiles(files []string) error {
	for _, file := range files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}

	str(EnvEndpoint, &c.Endpoint)
	str(EnvEnv, &c.Env)
	str(EnvAddr, &c.Server.Addr)
	str(EnvMetricsPath, &c.Metrics.Path)
	str(EnvTheme, &c.Theme.Name)
	str(EnvThemeVariant, &c.Theme.Variant)

	if value, ok := lookup(EnvMetricsEnabled); ok && strings.TrimSpace(value) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvMetricsEnabled, value)
		}
		c.Metrics.Enabled = enabled
	}
	return nil
}

// Overrides carries command-line values. Empty fields leave the config
// untouched.
type Overrides struct {
	Env      string
	Endpoint string
	Addr     string
}

// Apply merges o into c and revalidates.
func (c *Config) Apply(o Overrides) error {
	if o.Env != "" {
		c.Env = o.Env
	}
	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.Addr != "" {
		c.Server.Addr = o.Addr
	}
	return c.Validate()
}

// Validate reports the first invalid setting, wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.Env {
	case logging.EnvDevelopment, logging.EnvProduction:
	default:
		return fmt.Errorf("%w: env must be %q or %q, got %q", ErrInvalidConfig, logging.EnvDevelopment, logging.EnvProduction, c.Env)
	}

	endpoint, err := workflow.ValidateEndpoint(c.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.Endpoint = endpoint

	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request_timeout must not be negative", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidConfig)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics.path must start with /", ErrInvalidConfig)
	}
	return nil
}

// Timeout converts a seconds setting to a duration.
func Timeout(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// RendererConfig converts the theme section for HTML renderers. It returns
// nil when no theme is configured.
func (t ThemeConfig) RendererConfig() *theme.RendererConfig {
	if t.Name == "" && t.Variant == "" && len(t.Tokens) == 0 {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   t.Name,
		Variant: t.Variant,
	}
	if len(t.Tokens) > 0 {
		cfg.Tokens = make(map[string]string, len(t.Tokens))
		cfg.CSSVars = make(map[string]string, len(t.Tokens))
		for key, value := range t.Tokens {
			cfg.Tokens[key] = value
			cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
		}
	}
	return cfg
}
