// Package config loads the settings of an rtdb instance from a YAML or TOML
// file, expands ${VAR} references and applies RTDB_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/rtdb/logging"
)

// Format identifies a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Config is the complete configuration of an instance.
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Auth     AuthConfig     `yaml:"auth" toml:"auth"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Seed     SeedConfig     `yaml:"seed" toml:"seed"`
}

// DatabaseConfig controls address rendering and timestamps.
type DatabaseConfig struct {
	Scheme          string `yaml:"scheme" toml:"scheme"`
	Host            string `yaml:"host" toml:"host"`
	TimestampLayout string `yaml:"timestamp_layout,omitempty" toml:"timestamp_layout,omitempty"`
}

// AuthConfig controls custom token signing.
type AuthConfig struct {
	Secret   string `yaml:"secret,omitempty" toml:"secret,omitempty"`
	Issuer   string `yaml:"issuer,omitempty" toml:"issuer,omitempty"`
	TokenTTL string `yaml:"token_ttl,omitempty" toml:"token_ttl,omitempty"`
}

// TTL parses TokenTTL, falling back to one hour when unset.
func (a AuthConfig) TTL() (time.Duration, error) {
	if a.TokenTTL == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(a.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid auth.token_ttl %q: %w", a.TokenTTL, err)
	}
	return d, nil
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// SeedConfig lists data files imported at startup.
type SeedConfig struct {
	Files []string `yaml:"files,omitempty" toml:"files,omitempty"`
	// Users is a file of user records imported into the identity store.
	Users string `yaml:"users,omitempty" toml:"users,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Scheme: "https", Host: "localhost"},
		Auth:     AuthConfig{Issuer: "rtdb"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the file at path. The format follows the file extension.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := LoadFromBytes(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	// seed files are resolved relative to the config file
	base := filepath.Dir(path)
	for i, f := range cfg.Seed.Files {
		cfg.Seed.Files[i] = resolve(base, f)
	}
	if cfg.Seed.Users != "" {
		cfg.Seed.Users = resolve(base, cfg.Seed.Users)
	}
	return cfg, nil
}

// LoadFromBytes decodes data over the defaults, then applies environment
// overrides and validates the result.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	cfg := Default()
	content := expandEnvVars(string(data))

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(strings.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader([]byte(content)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FormatFromPath maps a file extension to its Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
}

// ApplyEnv overrides settings from RTDB_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	set("RTDB_SCHEME", &c.Database.Scheme)
	set("RTDB_HOST", &c.Database.Host)
	set("RTDB_TIMESTAMP_LAYOUT", &c.Database.TimestampLayout)
	set("RTDB_AUTH_SECRET", &c.Auth.Secret)
	set("RTDB_AUTH_ISSUER", &c.Auth.Issuer)
	set("RTDB_AUTH_TOKEN_TTL", &c.Auth.TokenTTL)
	set("RTDB_LOG_LEVEL", &c.Logging.Level)
	set("RTDB_LOG_FORMAT", &c.Logging.Format)
	set("RTDB_SEED_USERS", &c.Seed.Users)
	if v, ok := lookup("RTDB_SEED_FILES"); ok && v != "" {
		c.Seed.Files = nil
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.Seed.Files = append(c.Seed.Files, f)
			}
		}
	}
}

// Validate checks the values that cannot be caught by decoding.
func (c *Config) Validate() error {
	switch c.Database.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("invalid database.scheme %q: must be http or https", c.Database.Scheme)
	}
	if strings.TrimSpace(c.Database.Host) == "" {
		return fmt.Errorf("database.host must not be empty")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging.format %q: must be text or json", c.Logging.Format)
	}
	if _, err := c.Auth.TTL(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.LogLevel {
	l, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.LogLevelInfo
	}
	return l
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} references.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
