// Package config loads and validates the semschema runtime configuration
// from a JSON file with environment variable overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/c360/semschema/iri"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "SEMSCHEMA"

// Config is the complete runtime configuration.
type Config struct {
	// Project is the default project whose graphs the tooling operates
	// on. NATS-subject compatible: alphanumeric plus dot, dash,
	// underscore.
	Project string        `json:"project"`
	NATS    NATSConfig    `json:"nats"`
	Store   StoreConfig   `json:"store,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty"`
	Log     LogConfig     `json:"log,omitempty"`
	// Prefixes maps additional prefix bindings (on top of the standard
	// rdf, rdfs, owl, sh, xsd ones) used when displaying identifiers.
	Prefixes map[string]string `json:"prefixes,omitempty"`
}

// NATSConfig defines NATS connection settings.
type NATSConfig struct {
	URL           string        `json:"url"`
	MaxReconnects int           `json:"max_reconnects,omitempty"`
	ReconnectWait time.Duration `json:"reconnect_wait,omitempty"`
	Username      string        `json:"username,omitempty"`
	Password      string        `json:"password,omitempty"`
	Token         string        `json:"token,omitempty"`
	TLS           TLSConfig     `json:"tls,omitempty"`
}

// TLSConfig for secure NATS connections.
type TLSConfig struct {
	Enabled  bool   `json:"enabled"`
	CertFile string `json:"cert_file,omitempty"`
	KeyFile  string `json:"key_file,omitempty"`
	CAFile   string `json:"ca_file,omitempty"`
}

// StoreConfig tunes gateway behavior.
type StoreConfig struct {
	RequestTimeout time.Duration `json:"request_timeout,omitempty"`
	MaxRetries     int           `json:"max_retries,omitempty"`
	RetryDelay     time.Duration `json:"retry_delay,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port,omitempty"`
	Path    string `json:"path,omitempty"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`
	// Format is "json" or "text".
	Format string `json:"format,omitempty"`
}

// Default returns the configuration defaults applied under any loaded
// file.
func Default() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:           "nats://localhost:4222",
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
		},
		Store: StoreConfig{
			RequestTimeout: 10 * time.Second,
			MaxRetries:     3,
			RetryDelay:     100 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the JSON file if path is non-empty, layers it over the
// defaults, applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(EnvPrefix + "_PROJECT"); val != "" {
		cfg.Project = val
	}
	if val := os.Getenv(EnvPrefix + "_NATS_URL"); val != "" {
		cfg.NATS.URL = val
	}
	if val := os.Getenv(EnvPrefix + "_NATS_USERNAME"); val != "" {
		cfg.NATS.Username = val
	}
	if val := os.Getenv(EnvPrefix + "_NATS_PASSWORD"); val != "" {
		cfg.NATS.Password = val
	}
	if val := os.Getenv(EnvPrefix + "_NATS_TOKEN"); val != "" {
		cfg.NATS.Token = val
	}
	if val := os.Getenv(EnvPrefix + "_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv(EnvPrefix + "_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	if val := os.Getenv(EnvPrefix + "_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Metrics.Port = port
			cfg.Metrics.Enabled = true
		}
	}
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Project == "" {
		return errors.New("project is required")
	}
	c.Project = strings.ToLower(c.Project)
	if !isValidSubjectPart(c.Project) {
		return fmt.Errorf("project %q is not valid for graph names (must be alphanumeric with dots, dashes, underscores)",
			c.Project)
	}

	if c.NATS.URL == "" {
		return errors.New("nats.url is required")
	}

	if c.NATS.TLS.Enabled {
		if c.NATS.TLS.CertFile == "" || c.NATS.TLS.KeyFile == "" {
			return errors.New("nats.tls.cert_file and nats.tls.key_file are required when TLS is enabled")
		}
	}

	if c.Store.RequestTimeout < 0 || c.Store.RetryDelay < 0 {
		return errors.New("store timeouts must not be negative")
	}
	if c.Store.MaxRetries < 0 {
		return errors.New("store.max_retries must not be negative")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", c.Log.Format)
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port %d is out of range", c.Metrics.Port)
	}

	if _, err := c.PrefixMap(); err != nil {
		return err
	}
	return nil
}

// PrefixMap builds a prefix map from the standard bindings plus the
// configured ones.
func (c *Config) PrefixMap() (*iri.PrefixMap, error) {
	pm := iri.NewPrefixMap()
	for prefix, namespace := range c.Prefixes {
		if err := pm.Register(prefix, namespace); err != nil {
			return nil, fmt.Errorf("prefix %q: %w", prefix, err)
		}
	}
	return pm, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		copied := *c
		return &copied
	}
	var clone Config
	if err := json.Unmarshal(data, &clone); err != nil {
		copied := *c
		return &copied
	}
	return &clone
}

// String returns a JSON representation with credentials redacted.
func (c *Config) String() string {
	clone := c.Clone()
	if clone.NATS.Password != "" {
		clone.NATS.Password = "[redacted]"
	}
	if clone.NATS.Token != "" {
		clone.NATS.Token = "[redacted]"
	}
	data, _ := json.MarshalIndent(clone, "", "  ")
	return string(data)
}

// isValidSubjectPart checks if a string is valid for use in graph names
// and NATS subjects.
func isValidSubjectPart(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}
