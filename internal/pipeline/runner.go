package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/psiborg/namedrop/internal/config"
	"github.com/psiborg/namedrop/internal/naming"
	"github.com/psiborg/namedrop/internal/planner"
	"github.com/psiborg/namedrop/internal/probe"
	"github.com/spf13/afero"
)

// TempSuffix ends the intermediate name used for case-only renames on
// case-insensitive filesystems.
const TempSuffix = ".tmp_rename"

// ErrTargetExists is recorded when the target appeared on disk between
// planning and renaming.
var ErrTargetExists = errors.New("target already exists")

// Logger is the minimal logging interface needed by the pipeline.
// Defined here (rather than importing the logging package) so that pipeline
// stays testable with a recording logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})        {}
func (nopLogger) Success(string, ...interface{})     {}
func (nopLogger) Warn(string, ...interface{})        {}
func (nopLogger) Error(string, ...interface{})       {}
func (nopLogger) Debug(bool, string, ...interface{}) {}

// Options carries the collaborators shared by Plan and Apply.
type Options struct {
	Fs          afero.Fs       // Default: the OS filesystem.
	Timestamps  probe.Source   // Optional; modification time is the fallback.
	CaseFolding naming.Folding // Resolved per directory by the caller.
	Log         Logger         // Optional.
	Verbose     bool
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Log == nil {
		o.Log = nopLogger{}
	}
	return o
}

// Plan validates rules and returns the plan for files. It only reads the
// filesystem. The error is non-nil for configuration problems or when ctx is
// already done; per-file problems are Conflict entries.
func Plan(ctx context.Context, files []planner.FileEntry, rules config.RuleConfig, opts Options) ([]planner.PlanEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	return planner.BuildPlan(files, rules, planner.Options{
		Fs:          opts.Fs,
		Timestamps:  opts.Timestamps,
		CaseFolding: opts.CaseFolding,
	})
}

// Apply re-plans files against the current filesystem and executes the plan.
// Once started, the batch runs to the end.
func Apply(ctx context.Context, files []planner.FileEntry, rules config.RuleConfig, opts Options) (Result, error) {
	plan, err := Plan(ctx, files, rules, opts)
	if err != nil {
		return Result{}, err
	}
	return Execute(plan, opts), nil
}

// Execute performs the renames in plan order, sequentially. Unchanged
// entries are skipped, conflicts are recorded as errors without touching the
// filesystem, and a failed rename is recorded and the batch continues.
func Execute(plan []planner.PlanEntry, opts Options) Result {
	opts = opts.withDefaults()
	log := opts.Log
	var res Result

	for i, e := range plan {
		out := FileOutcome{Path: e.File.Path, OldName: e.File.Name, NewName: e.Target}
		log.Debug(opts.Verbose, "[%d/%d] %s", i+1, len(plan), e.File.Name)

		switch e.Outcome {
		case planner.OutcomeNoChange:
			out.Status = StatusSkipped
			log.Debug(opts.Verbose, "  Unchanged")

		case planner.OutcomeConflict:
			out.Status = StatusError
			out.Message = e.Reason
			log.Error("%s: %s", e.File.Name, e.Reason)

		case planner.OutcomeRename:
			if err := rename(opts, e); err != nil {
				out.Status = StatusError
				out.Message = err.Error()
				log.Error("%s: %v", e.File.Name, err)
				break
			}
			out.Status = StatusRenamed
			log.Success("%s -> %s", e.File.Name, e.Target)
		}
		res.add(out)
	}
	return res
}

func rename(opts Options, e planner.PlanEntry) error {
	src, dst := e.File.Path, e.TargetPath()
	if e.CaseOnly && opts.CaseFolding.In(e.File.Dir) {
		other, err := naming.OccupiedByOther(opts.Fs, dst, src)
		if err != nil {
			return fmt.Errorf("check %s: %w", e.Target, err)
		}
		if other {
			return fmt.Errorf("%w: %s", ErrTargetExists, e.Target)
		}
		return renameViaTemp(opts, src, dst)
	}
	exists, err := afero.Exists(opts.Fs, dst)
	if err != nil {
		return fmt.Errorf("check %s: %w", e.Target, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTargetExists, e.Target)
	}
	return opts.Fs.Rename(src, dst)
}

// renameViaTemp forces a case change on filesystems that treat the old and
// new names as the same entry. On failure of the second step the file is
// moved back to src.
func renameViaTemp(opts Options, src, dst string) error {
	tmp := filepath.Join(filepath.Dir(dst), filepath.Base(dst)+"."+uuid.NewString()[:8]+TempSuffix)
	opts.Log.Debug(opts.Verbose, "  Case-only rename via %s", filepath.Base(tmp))
	if err := opts.Fs.Rename(src, tmp); err != nil {
		return err
	}
	if err := opts.Fs.Rename(tmp, dst); err != nil {
		if rbErr := opts.Fs.Rename(tmp, src); rbErr != nil {
			return fmt.Errorf("%w (file left at %s: %v)", err, tmp, rbErr)
		}
		return err
	}
	return nil
}
