// Package config loads harq's optional YAML configuration: output defaults
// and saved filter expressions.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/output"
)

const (
	// EnvVar names the environment variable holding a config path.
	EnvVar = "HARQ_CONFIG"
	// DefaultFile is looked up in the working directory.
	DefaultFile = ".harq.yaml"
	// DefaultMaxURL is the URL column width when nothing else is set.
	DefaultMaxURL = 60
)

// Config is the decoded configuration file.
type Config struct {
	Color   output.ColorMode  `yaml:"color"`
	Output  output.Format     `yaml:"output"`
	MaxURL  int               `yaml:"max_url"`
	Filters map[string]string `yaml:"filters"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Color:   output.ColorAuto,
		Output:  output.FormatTable,
		MaxURL:  DefaultMaxURL,
		Filters: map[string]string{},
	}
}

// Load reads and validates the config file at path. Unset keys keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Filters == nil {
		cfg.Filters = map[string]string{}
	}
	cfg.Path = path

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve finds the config to use: the explicit path if given, then
// $HARQ_CONFIG, then ./.harq.yaml. Only the last may be missing, in which
// case the defaults are returned.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}

	cfg, err := Load(DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) validate() error {
	if _, err := output.ParseColorMode(string(c.Color)); err != nil {
		return err
	}
	if _, err := output.ParseFormat(string(c.Output), output.FormatTable, output.FormatJSON, output.FormatCompact); err != nil {
		return err
	}
	if c.MaxURL < 0 {
		return fmt.Errorf("max_url must not be negative, got %d", c.MaxURL)
	}

	for _, name := range c.FilterNames() {
		if name == "" || strings.ContainsAny(name, " \t@()") {
			return fmt.Errorf("invalid saved filter name %q", name)
		}
		if _, err := filter.Parse(c.Filters[name]); err != nil {
			return fmt.Errorf("saved filter %q: %w", name, err)
		}
	}
	return nil
}

// FilterNames returns the saved filter names in sorted order.
func (c *Config) FilterNames() []string {
	names := make([]string, 0, len(c.Filters))
	for name := range c.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand resolves a "@name" reference to the saved expression. Any other
// text is returned unchanged.
func (c *Config) Expand(expr string) (string, error) {
	name, ok := strings.CutPrefix(strings.TrimSpace(expr), "@")
	if !ok {
		return expr, nil
	}
	saved, ok := c.Filters[name]
	if !ok {
		return "", fmt.Errorf("unknown saved filter %q", "@"+name)
	}
	return saved, nil
}
