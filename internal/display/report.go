package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/psiborg/namedrop/internal/pipeline"
	"github.com/psiborg/namedrop/internal/planner"
	"github.com/psiborg/namedrop/internal/term"
)

// PreviewLimits caps how many entries of each group RenderPreview lists.
// Zero means no cap. Conflicts are always listed in full.
type PreviewLimits struct {
	Renames   int
	Unchanged int
}

// DefaultPreviewLimits shows the first 20 renames and 5 unchanged files.
var DefaultPreviewLimits = PreviewLimits{Renames: 20, Unchanged: 5}

func capped(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// RenderPreview writes the grouped plan: renames, unchanged files, then
// conflicts, followed by the summary line.
func RenderPreview(w io.Writer, plan []planner.PlanEntry, limits PreviewLimits) {
	var renames, unchanged, conflicts []planner.PlanEntry
	for _, e := range plan {
		switch e.Outcome {
		case planner.OutcomeRename:
			renames = append(renames, e)
		case planner.OutcomeNoChange:
			unchanged = append(unchanged, e)
		case planner.OutcomeConflict:
			conflicts = append(conflicts, e)
		}
	}

	if len(renames) > 0 {
		fmt.Fprintf(w, "%sFiles to be renamed (%d):%s\n", term.Green, len(renames), term.NC)
		n := capped(len(renames), limits.Renames)
		for _, e := range renames[:n] {
			fmt.Fprintf(w, "  %s\n", e.File.Name)
			fmt.Fprintf(w, "  %s→ %s%s%s\n", term.Green, e.Target, term.NC, FormatNotes(e))
		}
		if more := FormatMore(len(renames), n); more != "" {
			fmt.Fprintln(w, more)
		}
		fmt.Fprintln(w)
	}

	if len(unchanged) > 0 {
		fmt.Fprintf(w, "%sNo changes needed (%d):%s\n", term.Yellow, len(unchanged), term.NC)
		n := capped(len(unchanged), limits.Unchanged)
		for _, e := range unchanged[:n] {
			fmt.Fprintf(w, "  %s\n", e.File.Name)
		}
		if more := FormatMore(len(unchanged), n); more != "" {
			fmt.Fprintln(w, more)
		}
		fmt.Fprintln(w)
	}

	if len(conflicts) > 0 {
		fmt.Fprintf(w, "%sErrors/Conflicts (%d):%s\n", term.Red, len(conflicts), term.NC)
		for _, e := range conflicts {
			fmt.Fprintf(w, "  %s: %s\n", e.File.Name, e.Reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "=== Summary: %d to rename, %d unchanged, %d errors ===\n",
		len(renames), len(unchanged), len(conflicts))
}

// RenderDiff writes one unified diff per directory that has renames, with
// the planned names before and after. Conflicts keep their old name.
func RenderDiff(w io.Writer, plan []planner.PlanEntry) error {
	var dirs []string
	before := make(map[string][]string)
	after := make(map[string][]string)
	changed := make(map[string]bool)
	for _, e := range plan {
		dir := e.File.Dir
		if _, ok := before[dir]; !ok {
			dirs = append(dirs, dir)
		}
		target := e.File.Name
		if e.Outcome == planner.OutcomeRename {
			target = e.Target
			changed[dir] = true
		}
		before[dir] = append(before[dir], e.File.Name+"\n")
		after[dir] = append(after[dir], target+"\n")
	}

	for _, dir := range dirs {
		if !changed[dir] {
			continue
		}
		u := difflib.UnifiedDiff{
			A:        before[dir],
			B:        after[dir],
			FromFile: dir + " (before)",
			ToFile:   dir + " (after)",
			Context:  1,
		}
		s, err := difflib.GetUnifiedDiffString(u)
		if err != nil {
			return fmt.Errorf("diff %s: %w", dir, err)
		}
		fmt.Fprint(w, colorDiff(s))
	}
	return nil
}

// colorDiff colors removed and added lines when colors are enabled.
func colorDiff(s string) string {
	if !term.Enabled() {
		return s
	}
	var b strings.Builder
	for _, line := range strings.SplitAfter(s, "\n") {
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "---") || strings.HasPrefix(body, "+++"):
			b.WriteString(line)
		case strings.HasPrefix(body, "-"):
			b.WriteString(term.Red + body + term.NC + nl)
		case strings.HasPrefix(body, "+"):
			b.WriteString(term.Green + body + term.NC + nl)
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

// RenderResult writes the failed files of a run and the final counters.
// Per-file progress is logged while the batch executes.
func RenderResult(w io.Writer, res pipeline.Result) {
	if failed := res.Failed(); len(failed) > 0 {
		fmt.Fprintf(w, "%sFailed (%d):%s\n", term.Red, len(failed), term.NC)
		for _, f := range failed {
			name := f.OldName
			if f.NewName != "" && f.NewName != f.OldName {
				name = FormatRename(f.OldName, f.NewName)
			}
			fmt.Fprintf(w, "  %s: %s\n", name, f.Message)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "=== COMPLETE: %d renamed, %d skipped, %d errors ===\n",
		res.Renamed, res.Unchanged, res.Errors)
}
