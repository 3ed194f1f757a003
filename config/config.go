// Package config holds the weaver's external-interface configuration:
// the CLI's reader/writer/template/stylesheet defaults and `-a
// key=value` attribute overrides (spec.md §6).
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk, optional configuration file; every field may
// also be overridden from the CLI.
type Config struct {
	Reader     string            `yaml:"reader,omitempty"`
	Writer     string            `yaml:"writer,omitempty"`
	Extension  string            `yaml:"extension,omitempty"`
	Template   string            `yaml:"template,omitempty"`
	Stylesheet string            `yaml:"stylesheet,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// Load reads a YAML config file. A missing file is not an error — it
// returns a zero Config, since every field is optional and CLI flags
// can supply everything.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParseAttr parses one `-a key=value` flag value.
func ParseAttr(s string) (key, value string, err error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("config: invalid attribute override %q, want key=value", s)
	}
	return parts[0], parts[1], nil
}

// Merge layers CLI attribute overrides on top of the config file's own
// attributes, CLI taking precedence.
func (c *Config) Merge(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(c.Attributes)+len(overrides))
	for k, v := range c.Attributes {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
