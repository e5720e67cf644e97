package planner

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/psiborg/namedrop/internal/naming"
	"github.com/psiborg/namedrop/internal/probe"
)

// Outcome describes the per-file planning decision.
type Outcome int

const (
	OutcomeRename Outcome = iota
	OutcomeNoChange
	OutcomeConflict
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRename:
		return "rename"
	case OutcomeNoChange:
		return "unchanged"
	case OutcomeConflict:
		return "conflict"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// FileEntry is one input file. It is fixed once enumerated.
type FileEntry struct {
	Path string // Absolute, cleaned.
	Dir  string // Parent directory of Path.
	Name string // Base name.
	Stem string // Name without Ext.
	Ext  string // Last ".suffix" of Name, or "".
}

// NewFileEntry builds a FileEntry for path, making it absolute.
func NewFileEntry(path string) (FileEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileEntry{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	name := filepath.Base(abs)
	stem, ext := naming.SplitName(name)
	return FileEntry{Path: abs, Dir: filepath.Dir(abs), Name: name, Stem: stem, Ext: ext}, nil
}

// PlanEntry holds the decision for a single file. It is produced by
// BuildPlan and not modified afterwards.
type PlanEntry struct {
	File     FileEntry
	Target   string // Final base name; empty when no name could be computed.
	Outcome  Outcome
	CaseOnly bool   // Rename differs from the original only in letter case.
	Reason   string // Conflict reason.

	// Timestamp mode only.
	Timestamp       time.Time
	TimestampSource probe.Tag
}

// TargetPath returns the full path the file is renamed to.
func (e PlanEntry) TargetPath() string {
	return filepath.Join(e.File.Dir, e.Target)
}

// Counts tallies a plan by outcome.
type Counts struct {
	Rename   int
	NoChange int
	Conflict int
}

// Count tallies plan.
func Count(plan []PlanEntry) Counts {
	var c Counts
	for _, e := range plan {
		switch e.Outcome {
		case OutcomeRename:
			c.Rename++
		case OutcomeNoChange:
			c.NoChange++
		case OutcomeConflict:
			c.Conflict++
		}
	}
	return c
}
