package planner

import (
	"fmt"
	"strings"

	"github.com/psiborg/namedrop/internal/config"
	"github.com/psiborg/namedrop/internal/naming"
	"github.com/psiborg/namedrop/internal/probe"
	"github.com/spf13/afero"
)

// Options carries the collaborators BuildPlan reads from.
type Options struct {
	Fs          afero.Fs       // Default: the OS filesystem.
	Timestamps  probe.Source   // Optional; modification time is the fallback.
	CaseFolding naming.Folding // Directories where names differing only in case are the same file.
}

// BuildPlan produces one PlanEntry per file, in input order. It only reads
// the filesystem. Every call uses a fresh namespace, so claims never leak
// between runs. The error is non-nil only for invalid rules; per-file
// problems become Conflict entries.
//
// Flow per file:
//  1. Resolve the timestamp (timestamp mode only)
//  2. Transform and sanitize the stem
//  3. Resolve the name against this run's claims and the disk
//  4. Decide: unchanged, conflict, or rename (case-only flagged)
func BuildPlan(files []FileEntry, rules config.RuleConfig, opts Options) ([]PlanEntry, error) {
	tr, err := naming.NewTransformer(rules)
	if err != nil {
		return nil, err
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	b := &builder{
		rules: rules,
		opts:  opts,
		tr:    tr,
		ns:    naming.NewNamespace(opts.CaseFolding),
	}
	b.resolver = naming.NewResolver(opts.Fs, b.ns)

	plan := make([]PlanEntry, 0, len(files))
	for _, f := range files {
		plan = append(plan, b.plan(f))
	}
	return plan, nil
}

type builder struct {
	rules    config.RuleConfig
	opts     Options
	tr       *naming.Transformer
	ns       *naming.Namespace
	resolver *naming.Resolver
}

func conflict(e PlanEntry, format string, args ...any) PlanEntry {
	e.Outcome = OutcomeConflict
	e.Reason = fmt.Sprintf(format, args...)
	return e
}

func (b *builder) plan(f FileEntry) PlanEntry {
	e := PlanEntry{File: f}
	mode := b.rules.CaseMode

	// --- 1. Timestamp ---
	if mode == config.CaseTimestamp {
		ts, tag, err := probe.Resolve(b.opts.Fs, b.opts.Timestamps, f.Path)
		if err != nil {
			return conflict(e, "%v", err)
		}
		e.Timestamp, e.TimestampSource = ts, tag
	}

	// --- 2. Candidate stem ---
	stem := naming.Sanitize(b.tr.Transform(f.Stem, e.Timestamp), b.rules)

	// --- 3. Final name ---
	name := stem + f.Ext
	if mode == config.CaseTimestamp && stem != "" {
		resolved, err := b.resolver.Resolve(f.Dir, stem, f.Ext, f.Name, mode)
		if err != nil {
			e.Target = name
			return conflict(e, "%v", err)
		}
		name = resolved
	}
	e.Target = name

	// --- 4. Decision ---
	if stem == "" || !naming.ValidName(name) {
		return conflict(e, "Target '%s' is not a valid file name", name)
	}
	if name == f.Name {
		e.Outcome = OutcomeNoChange
		b.ns.Claim(f.Dir, name)
		return e
	}
	if b.resolver.Taken(f.Dir, name, f.Name) {
		return conflict(e, "Target '%s' already exists", name)
	}
	e.Outcome = OutcomeRename
	e.CaseOnly = strings.EqualFold(name, f.Name)
	b.ns.Claim(f.Dir, name)
	return e
}
