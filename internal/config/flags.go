package config

// This file binds CLI flags to Config. Flags are grouped into global (display,
// logging, rules file, filesystem capability) and rule flags (shared by the
// preview, apply and watch commands). Values are copied into Config only when
// a flag or its NAMEDROP_* variable is set, so defaults and rules-file values
// hold otherwise.

import (
	"strings"

	"github.com/urfave/cli/v3"
)

// Version is shown by --version; override at build time with
// -ldflags "-X github.com/psiborg/namedrop/internal/config.Version=...".
var Version = "1.0.0-dev"

func env(name string) cli.ValueSourceChain {
	return cli.EnvVars("NAMEDROP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
}

// GlobalFlags returns the flags registered on the root command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Verbose output", Sources: env("verbose")},
		&cli.BoolFlag{Name: "color", Usage: "Force colored logs", Sources: env("color")},
		&cli.BoolFlag{Name: "no-color", Usage: "Disable colored logs", Sources: env("no-color")},
		&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Usage: "Append logs to `FILE`", Sources: env("log")},
		&cli.StringFlag{Name: "rules", Usage: "Load renaming rules from a YAML `FILE`", Sources: env("rules")},
		&cli.StringFlag{
			Name:    "case-sensitivity",
			Usage:   "Filesystem case handling: auto | sensitive | insensitive",
			Value:   string(CaseSensitivityAuto),
			Sources: env("case-sensitivity"),
		},
	}
}

// RuleFlags returns the flags shared by commands that plan renames.
func RuleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Case mode: title | lower | upper | timestamp",
			Value:   string(CaseTitle),
			Sources: env("mode"),
		},
		&cli.BoolFlag{Name: "no-minor-words", Usage: "Capitalize every word in title mode", Sources: env("no-minor-words")},
		&cli.StringSliceFlag{Name: "minor-words", Usage: "Replace the minor-word list (comma separated)", Sources: env("minor-words")},
		&cli.BoolFlag{Name: "replace-spaces", Usage: "Replace spaces with '_' (lower/upper modes)", Sources: env("replace-spaces")},
		&cli.BoolFlag{Name: "strip-punctuation", Usage: "Remove punctuation (lower/upper modes)", Sources: env("strip-punctuation")},
		&cli.BoolFlag{Name: "replace-special", Usage: "Replace special characters with '_' (all modes)", Sources: env("replace-special")},
		&cli.StringFlag{Name: "special-chars", Usage: "Replace the special-character list (every character counts)", Sources: env("special-chars")},
		&cli.StringFlag{
			Name:    "timestamp-format",
			Usage:   "strftime pattern for timestamp mode",
			Value:   DefaultTimestampFormat,
			Sources: env("timestamp-format"),
		},
		&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "Descend into subdirectories", Sources: env("recursive")},
		&cli.StringSliceFlag{Name: "include", Usage: "Only take files whose name matches `GLOB`", Sources: env("include")},
		&cli.StringSliceFlag{Name: "exclude", Usage: "Skip files whose name matches `GLOB`", Sources: env("exclude")},
	}
}

// ApplyFlags copies every set flag from cmd (and its parents) into cfg,
// followed by the positional arguments. Rule edits go through the RuleConfig
// edit operations so their invariants hold.
func ApplyFlags(cmd *cli.Command, cfg *Config) error {
	if cmd.IsSet("verbose") {
		cfg.Verbose = cmd.Bool("verbose")
	}
	// --no-color wins over --color.
	switch {
	case cmd.IsSet("no-color") && cmd.Bool("no-color"):
		cfg.ColorMode = ColorNever
	case cmd.IsSet("color") && cmd.Bool("color"):
		cfg.ColorMode = ColorAlways
	}
	if cmd.IsSet("log") {
		cfg.LogFile = cmd.String("log")
	}
	if cmd.IsSet("case-sensitivity") {
		cs, err := ParseCaseSensitivity(cmd.String("case-sensitivity"))
		if err != nil {
			return err
		}
		cfg.CaseSensitivity = cs
	}

	if err := applyRuleFlags(cmd, &cfg.Rules); err != nil {
		return err
	}

	if cmd.IsSet("recursive") {
		cfg.Recursive = cmd.Bool("recursive")
	}
	if cmd.IsSet("include") {
		cfg.Include = splitList(cmd.StringSlice("include"))
	}
	if cmd.IsSet("exclude") {
		cfg.Exclude = splitList(cmd.StringSlice("exclude"))
	}
	if cmd.IsSet("dry-run") {
		cfg.DryRun = cmd.Bool("dry-run")
	}
	if cmd.IsSet("diff") {
		cfg.ShowDiff = cmd.Bool("diff")
	}
	if cmd.IsSet("debounce") {
		cfg.WatchDebounce = cmd.Duration("debounce")
	}

	cfg.Paths = append(cfg.Paths[:0], cmd.Args().Slice()...)
	return nil
}

func applyRuleFlags(cmd *cli.Command, r *RuleConfig) error {
	if cmd.IsSet("mode") {
		mode, err := ParseCaseMode(cmd.String("mode"))
		if err != nil {
			return err
		}
		r.CaseMode = mode
	}
	if cmd.IsSet("no-minor-words") {
		r.UseMinorWords = !cmd.Bool("no-minor-words")
	}
	if cmd.IsSet("minor-words") {
		r.SetMinorWords(splitList(cmd.StringSlice("minor-words")))
	}
	if cmd.IsSet("replace-spaces") {
		r.ReplaceSpaces = cmd.Bool("replace-spaces")
	}
	if cmd.IsSet("strip-punctuation") {
		r.StripPunctuation = cmd.Bool("strip-punctuation")
	}
	if cmd.IsSet("replace-special") {
		r.ReplaceSpecialChars = cmd.Bool("replace-special")
	}
	if cmd.IsSet("special-chars") {
		r.SetSpecialChars([]string{cmd.String("special-chars")})
	}
	if cmd.IsSet("timestamp-format") {
		if err := r.SetTimestampFormat(cmd.String("timestamp-format")); err != nil {
			return err
		}
	}
	return nil
}

// splitList flattens comma-separated entries and drops blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
