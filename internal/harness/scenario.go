package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a set of filter cases evaluated against one HAR file.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// HAR is the fixture path. Relative paths are resolved against the
	// scenario file's directory by LoadScenario.
	HAR string `yaml:"har"`

	// Cases are evaluated in order.
	Cases []Case `yaml:"cases"`
}

// Case is one filter expression and its expected outcome.
type Case struct {
	// Filter is the expression under test.
	Filter string `yaml:"filter"`

	// Expect lists the 1-based indexes the filter must select. An empty
	// list means no entry matches.
	Expect []int `yaml:"expect,omitempty"`

	// Rejected means the filter must fail to compile.
	Rejected bool `yaml:"rejected,omitempty"`

	// Export also round-trips the selection through the store.
	Export bool `yaml:"export,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.HAR != "" && !filepath.IsAbs(scenario.HAR) {
		scenario.HAR = filepath.Join(filepath.Dir(path), scenario.HAR)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.HAR == "" {
		return fmt.Errorf("har is required")
	}
	if _, err := os.Stat(s.HAR); os.IsNotExist(err) {
		return fmt.Errorf("har file not found: %s", s.HAR)
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if c.Filter == "" {
			return fmt.Errorf("cases[%d]: filter is required", i)
		}
		switch {
		case c.Rejected && c.Expect != nil:
			return fmt.Errorf("cases[%d]: expect and rejected are mutually exclusive", i)
		case !c.Rejected && c.Expect == nil:
			return fmt.Errorf("cases[%d]: expect is required (use [] when nothing matches)", i)
		case c.Rejected && c.Export:
			return fmt.Errorf("cases[%d]: a rejected filter cannot be exported", i)
		}
		for _, idx := range c.Expect {
			if idx < 1 {
				return fmt.Errorf("cases[%d]: indexes are 1-based, got %d", i, idx)
			}
		}
	}

	return nil
}
