package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by values that can check themselves after loading.
type Validator interface {
	Validate() error
}

// Load reads a YAML file into target after expanding environment variables.
// Keys absent from the file keep the values already in target. When target
// implements [Validator] it is validated before Load returns.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// LoadRules overlays the rules file at path onto rules. An empty path is a
// no-op.
func LoadRules(path string, rules *RuleConfig) error {
	if path == "" {
		return nil
	}
	return Load(path, rules)
}
