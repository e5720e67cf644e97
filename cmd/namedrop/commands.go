package main

import (
	"context"
	"fmt"
	"io"

	"github.com/psiborg/namedrop/internal/check"
	"github.com/psiborg/namedrop/internal/config"
	"github.com/psiborg/namedrop/internal/display"
	"github.com/psiborg/namedrop/internal/logging"
	"github.com/psiborg/namedrop/internal/pipeline"
	"github.com/psiborg/namedrop/internal/planner"
	"github.com/psiborg/namedrop/internal/probe"
	"github.com/psiborg/namedrop/internal/watch"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

func newRootCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "namedrop",
		Usage:   "Preview and apply batch file renames: case rules, sanitizing and timestamp names",
		Version: config.Version,
		Flags:   config.GlobalFlags(),
		Commands: []*cli.Command{
			{
				Name:      "preview",
				Usage:     "Show what apply would rename",
				ArgsUsage: "<path...>",
				Flags: append(config.RuleFlags(),
					&cli.BoolFlag{Name: "diff", Usage: "Also print a unified diff per directory"},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runPreview(ctx, cmd, stdout)
				},
			},
			{
				Name:      "apply",
				Usage:     "Rename the files",
				ArgsUsage: "<path...>",
				Flags: append(config.RuleFlags(),
					&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "Preview only; rename nothing"},
					&cli.BoolFlag{Name: "diff", Usage: "With --dry-run, also print a unified diff"},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runApply(ctx, cmd, stdout)
				},
			},
			{
				Name:      "watch",
				Usage:     "Rename files as they are dropped into the directories",
				ArgsUsage: "<dir...>",
				Flags: append(config.RuleFlags(),
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period before a batch runs",
						Value: config.DefaultWatchDebounce,
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runWatch(ctx, cmd, stdout)
				},
			},
			{
				Name:      "check",
				Usage:     "Print filesystem and rule diagnostics",
				ArgsUsage: "[dir...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runCheck(cmd, stdout)
				},
			},
		},
	}
}

// app is the per-invocation state shared by the commands.
type app struct {
	cfg config.Config
	log *logging.Logger
	fs  afero.Fs
}

// prepare builds the configuration (defaults, then the rules file, then
// flags), validates it, opens the logger and prints the banner.
func prepare(cmd *cli.Command, stdout io.Writer, needPaths bool) (*app, error) {
	cfg := config.DefaultConfig()
	cfg.RulesFile = cmd.String("rules")
	if err := config.LoadRules(cfg.RulesFile, &cfg.Rules); err != nil {
		return nil, err
	}
	if err := config.ApplyFlags(cmd, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if needPaths {
		if err := cfg.ValidatePaths(); err != nil {
			return nil, err
		}
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return nil, err
	}
	display.PrintBanner(stdout)
	if cfg.RulesFile != "" {
		log.Info("Rules file: %s", cfg.RulesFile)
	}
	log.Debug(cfg.Verbose, "Rules: %s", cfg.Rules.Summary())
	return &app{cfg: cfg, log: log, fs: afero.NewOsFs()}, nil
}

func (a *app) close() { _ = a.log.Close() }

func (a *app) discover() ([]planner.FileEntry, error) {
	files, err := pipeline.Discover(a.fs, a.cfg.Paths, pipeline.DiscoverOptions{
		Recursive: a.cfg.Recursive,
		Include:   a.cfg.Include,
		Exclude:   a.cfg.Exclude,
	}, a.log)
	if err != nil {
		return nil, err
	}
	a.log.Info("Found %s", display.FormatCount(len(files), "file"))
	return files, nil
}

// options resolves the case-sensitivity capability of each directory once
// for the run.
func (a *app) options(dirs []string) pipeline.Options {
	opts := pipeline.Options{
		Fs:          a.fs,
		CaseFolding: check.ResolveCaseFolding(a.fs, a.cfg.CaseSensitivity, dirs, a.log),
		Log:         a.log,
		Verbose:     a.cfg.Verbose,
	}
	if a.cfg.Rules.CaseMode == config.CaseTimestamp {
		opts.Timestamps = probe.NewEXIF(a.fs)
	}
	for dir, folds := range opts.CaseFolding.Dirs {
		a.log.Debug(a.cfg.Verbose, "Case-insensitive %s: %t", dir, folds)
	}
	return opts
}

func runPreview(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	a, err := prepare(cmd, stdout, true)
	if err != nil {
		return err
	}
	defer a.close()
	return a.preview(ctx, stdout)
}

func (a *app) preview(ctx context.Context, stdout io.Writer) error {
	files, err := a.discover()
	if err != nil {
		return err
	}
	plan, err := pipeline.Plan(ctx, files, a.cfg.Rules, a.options(pipeline.Dirs(files)))
	if err != nil {
		return err
	}
	display.RenderPreview(stdout, plan, display.DefaultPreviewLimits)
	if a.cfg.ShowDiff {
		return display.RenderDiff(stdout, plan)
	}
	return nil
}

func runApply(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	a, err := prepare(cmd, stdout, true)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.DryRun {
		a.log.Warn("DRY RUN: no files will be renamed")
		return a.preview(ctx, stdout)
	}

	files, err := a.discover()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		a.log.Warn("Nothing to rename")
		return nil
	}
	res, err := pipeline.Apply(ctx, files, a.cfg.Rules, a.options(pipeline.Dirs(files)))
	if err != nil {
		return err
	}
	display.RenderResult(stdout, res)
	if res.Errors > 0 {
		return errFilesFailed
	}
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	a, err := prepare(cmd, stdout, true)
	if err != nil {
		return err
	}
	defer a.close()

	for _, dir := range a.cfg.Paths {
		info, err := a.fs.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("watch: %s is not a directory", dir)
		}
	}
	opts := a.options(a.cfg.Paths)
	rules := a.cfg.Rules

	return watch.Run(ctx, watch.Options{
		Dirs:     a.cfg.Paths,
		Debounce: a.cfg.WatchDebounce,
		Filter:   pipeline.DiscoverOptions{Include: a.cfg.Include, Exclude: a.cfg.Exclude},
		Fs:       a.fs,
		Log:      a.log,
		Verbose:  a.cfg.Verbose,
		Apply: func(ctx context.Context, files []planner.FileEntry) (pipeline.Result, error) {
			return pipeline.Apply(ctx, files, rules, opts)
		},
		OnResult: func(res pipeline.Result) {
			display.RenderResult(stdout, res)
		},
	})
}

func runCheck(cmd *cli.Command, stdout io.Writer) error {
	a, err := prepare(cmd, stdout, false)
	if err != nil {
		return err
	}
	defer a.close()

	dirs := a.cfg.Paths
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	check.RunCheck(&a.cfg, a.fs, a.log, dirs...)
	return nil
}
