package config

import (
	"context"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ColorMode != ColorAuto || cfg.CaseSensitivity != CaseSensitivityAuto {
		t.Errorf("unexpected enums: %q %q", cfg.ColorMode, cfg.CaseSensitivity)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("WatchDebounce = %v", cfg.WatchDebounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "sometimes", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CaseSensitivity(t *testing.T) {
	tests := []struct {
		name    string
		cs      CaseSensitivity
		wantErr bool
	}{
		{"auto is valid", CaseSensitivityAuto, false},
		{"sensitive is valid", CaseSensitivitySensitive, false},
		{"insensitive is valid", CaseSensitivityInsensitive, false},
		{"unknown is invalid", "maybe", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CaseSensitivity = tt.cs
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Globs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"*.jpg", "IMG_[0-9]*"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	cfg.Exclude = []string{"[unclosed"}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted a malformed glob")
	}
}

func TestValidate_Rules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.TimestampFormat = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted an empty timestamp format")
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		wantErr bool
	}{
		{"one path", []string{"photos"}, false},
		{"several paths", []string{"a.txt", "b"}, false},
		{"no paths", nil, true},
		{"blank path", []string{"  "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Paths = tt.paths
			err := cfg.ValidatePaths()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCaseSensitivity(t *testing.T) {
	if got, err := ParseCaseSensitivity("Insensitive"); err != nil || got != CaseSensitivityInsensitive {
		t.Errorf("ParseCaseSensitivity(Insensitive) = %q, %v", got, err)
	}
	if _, err := ParseCaseSensitivity("nope"); err == nil {
		t.Error("ParseCaseSensitivity(nope) = nil error")
	}
}

// runFlags parses args with the global and rule flags and applies them to a
// default Config.
func runFlags(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	cfg := DefaultConfig()
	var applyErr error
	cmd := &cli.Command{
		Name:  "namedrop",
		Flags: append(GlobalFlags(), RuleFlags()...),
		Action: func(_ context.Context, cmd *cli.Command) error {
			applyErr = ApplyFlags(cmd, &cfg)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"namedrop"}, args...)); err != nil {
		return cfg, err
	}
	return cfg, applyErr
}

func TestApplyFlags(t *testing.T) {
	cfg, err := runFlags(t,
		"--mode", "upper",
		"--replace-spaces",
		"--strip-punctuation",
		"--replace-special",
		"--special-chars", "#%",
		"--no-color",
		"-v",
		"--include", "*.jpg,*.png",
		"-r",
		"photos", "extra.jpg",
	)
	if err != nil {
		t.Fatalf("ApplyFlags() = %v", err)
	}
	r := cfg.Rules
	if r.CaseMode != CaseUpper || !r.ReplaceSpaces || !r.StripPunctuation || !r.ReplaceSpecialChars {
		t.Errorf("rules not applied: %s", r.Summary())
	}
	if !r.SpecialChars.Has('#') || !r.SpecialChars.Has('%') || !r.SpecialChars.Has(0x1f) {
		t.Errorf("SpecialChars = %v", r.SpecialChars.Printable())
	}
	if cfg.ColorMode != ColorNever || !cfg.Verbose || !cfg.Recursive {
		t.Errorf("display flags not applied: %+v", cfg)
	}
	if len(cfg.Include) != 2 || cfg.Include[1] != "*.png" {
		t.Errorf("Include = %v", cfg.Include)
	}
	if len(cfg.Paths) != 2 || cfg.Paths[0] != "photos" {
		t.Errorf("Paths = %v", cfg.Paths)
	}
}

func TestApplyFlags_DefaultsHoldWhenUnset(t *testing.T) {
	cfg, err := runFlags(t, "a.txt")
	if err != nil {
		t.Fatalf("ApplyFlags() = %v", err)
	}
	want := DefaultRules()
	if cfg.Rules.CaseMode != want.CaseMode || cfg.Rules.UseMinorWords != want.UseMinorWords {
		t.Errorf("defaults changed: %s", cfg.Rules.Summary())
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("ColorMode = %q", cfg.ColorMode)
	}
}

func TestApplyFlags_NoMinorWords(t *testing.T) {
	cfg, err := runFlags(t, "--no-minor-words", "--minor-words", "x, y", "a.txt")
	if err != nil {
		t.Fatalf("ApplyFlags() = %v", err)
	}
	if cfg.Rules.UseMinorWords {
		t.Error("--no-minor-words not applied")
	}
	if !cfg.Rules.MinorWords.Has("x") || !cfg.Rules.MinorWords.Has("y") || cfg.Rules.MinorWords.Has("the") {
		t.Errorf("MinorWords = %v", cfg.Rules.MinorWords.Sorted())
	}
}

func TestApplyFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad mode", []string{"--mode", "snake", "a"}},
		{"bad timestamp format", []string{"--timestamp-format", "%Q", "a"}},
		{"bad case sensitivity", []string{"--case-sensitivity", "maybe", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runFlags(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestApplyFlags_EnvSource(t *testing.T) {
	t.Setenv("NAMEDROP_MODE", "lower")
	cfg, err := runFlags(t, "a.txt")
	if err != nil {
		t.Fatalf("ApplyFlags() = %v", err)
	}
	if cfg.Rules.CaseMode != CaseLower {
		t.Errorf("CaseMode = %q, want lower from NAMEDROP_MODE", cfg.Rules.CaseMode)
	}
}
