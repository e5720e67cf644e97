// Package config holds runtime configuration: defaults, rule editing, CLI flag
// binding, the optional YAML rules file, and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// CaseSensitivity overrides the per-run filesystem capability probe.
type CaseSensitivity string

const (
	CaseSensitivityAuto        CaseSensitivity = "auto"        // Probe the target directories (default).
	CaseSensitivitySensitive   CaseSensitivity = "sensitive"   // Treat the filesystem as case-sensitive.
	CaseSensitivityInsensitive CaseSensitivity = "insensitive" // Treat the filesystem as case-insensitive.
)

// ParseCaseSensitivity maps user input to a CaseSensitivity.
func ParseCaseSensitivity(s string) (CaseSensitivity, error) {
	switch v := CaseSensitivity(strings.ToLower(strings.TrimSpace(s))); v {
	case CaseSensitivityAuto, CaseSensitivitySensitive, CaseSensitivityInsensitive:
		return v, nil
	}
	return "", fmt.Errorf("invalid case sensitivity %q (use 'auto', 'sensitive' or 'insensitive')", s)
}

// DefaultWatchDebounce is the quiet period before a watch batch runs.
const DefaultWatchDebounce = 500 * time.Millisecond

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// by the optional rules file, then by [ApplyFlags], before being passed (by
// pointer) to the packages that need it.
type Config struct {
	// Inputs (set from positional args).
	Paths     []string
	Recursive bool     // Expand directories recursively.
	Include   []string // Base-name globs; empty means everything.
	Exclude   []string // Base-name globs applied after Include.

	// Renaming rules.
	Rules     RuleConfig
	RulesFile string // Optional YAML file loaded before flags.

	// Behavior.
	DryRun          bool
	ShowDiff        bool
	CaseSensitivity CaseSensitivity // Default: "auto".
	WatchDebounce   time.Duration   // Default: 500ms.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with the default rules and no inputs.
func DefaultConfig() Config {
	return Config{
		Rules:           DefaultRules(),
		CaseSensitivity: CaseSensitivityAuto,
		WatchDebounce:   DefaultWatchDebounce,
		ColorMode:       ColorAuto,
	}
}

// Validate checks enum fields, glob syntax and the rules. It does not look at
// Paths; commands that need inputs call [Config.ValidatePaths].
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ColorMode, validation.Required,
			validation.In(ColorAuto, ColorAlways, ColorNever).Error("invalid color mode (use 'auto', 'always' or 'never')")),
		validation.Field(&c.CaseSensitivity, validation.Required,
			validation.In(CaseSensitivityAuto, CaseSensitivitySensitive, CaseSensitivityInsensitive).
				Error("invalid case sensitivity (use 'auto', 'sensitive' or 'insensitive')")),
		validation.Field(&c.WatchDebounce, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

// ValidatePaths requires at least one non-empty input path.
func (c *Config) ValidatePaths() error {
	if len(c.Paths) == 0 {
		return errors.New("need at least one file or directory")
	}
	for _, p := range c.Paths {
		if strings.TrimSpace(p) == "" {
			return errors.New("empty path argument")
		}
	}
	return nil
}
