// Package config reads user defaults for req from a YAML file.
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const EnvConfigPath = "REQ_CONFIG"

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds defaults that command-line flags override. Unset booleans
// are nil so that an explicit false can be told apart from absence.
type Config struct {
	Timeout         string            `yaml:"timeout,omitempty"`
	FollowRedirects *bool             `yaml:"follow_redirects,omitempty"`
	MaxRedirects    int               `yaml:"max_redirects,omitempty"`
	Verify          *bool             `yaml:"verify,omitempty"`
	CheckStatus     *bool             `yaml:"check_status,omitempty"`
	Color           string            `yaml:"color,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
}

func Default() *Config {
	return &Config{
		Color: ColorAuto,
	}
}

func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects defaults to true.
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetVerify defaults to true.
func (c *Config) GetVerify() bool {
	return getBool(c.Verify, true)
}

func (c *Config) GetCheckStatus() bool {
	return getBool(c.CheckStatus, false)
}

func (c *Config) GetColor() string {
	if c.Color == "" {
		return ColorAuto
	}
	return c.Color
}

// Load reads the config file. An explicit path (or $REQ_CONFIG) must exist;
// the default locations are optional and Default is returned when none
// exists.
func Load(explicitPath string) (*Config, error) {
	if explicitPath == "" {
		explicitPath = os.Getenv(EnvConfigPath)
	}
	if explicitPath != "" {
		return loadFile(explicitPath)
	}

	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadFile(path)
		}
	}
	return Default(), nil
}

func searchPaths() []string {
	var paths []string
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, "req", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "req", "config.yaml"))
	}
	return paths
}

func loadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening config file")
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	return c, nil
}

// Parse decodes a YAML document. Unknown fields are rejected and an empty
// document yields Default.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing YAML")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("color must be one of auto, always or never: %s", c.Color)
	}
	if c.MaxRedirects < 0 {
		return errors.Errorf("max_redirects must not be negative: %d", c.MaxRedirects)
	}
	return nil
}

// Merge returns a copy of c with the values set in other taking precedence.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c
	if other.Timeout != "" {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Color != "" {
		result.Color = other.Color
	}
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.Verify != nil {
		result.Verify = other.Verify
	}
	if other.CheckStatus != nil {
		result.CheckStatus = other.CheckStatus
	}

	if len(c.Headers) > 0 || len(other.Headers) > 0 {
		result.Headers = make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			result.Headers[k] = v
		}
		for k, v := range other.Headers {
			result.Headers[k] = v
		}
	}
	return &result
}
