package display

import (
	"fmt"

	"github.com/psiborg/namedrop/internal/planner"
	"github.com/psiborg/namedrop/internal/probe"
)

// FormatCount returns "1 file" or "N files" style labels.
func FormatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// FormatRename returns the "old → new" pair used in single-line output.
func FormatRename(oldName, newName string) string {
	return oldName + " → " + newName
}

// FormatNotes returns the parenthesized annotations for a rename entry
// (case-only change, timestamp taken from the modification time), or "".
func FormatNotes(e planner.PlanEntry) string {
	var notes []string
	if e.CaseOnly {
		notes = append(notes, "case only")
	}
	if e.TimestampSource == probe.TagFallback {
		notes = append(notes, "modification time")
	}
	switch len(notes) {
	case 0:
		return ""
	case 1:
		return " (" + notes[0] + ")"
	}
	return " (" + notes[0] + ", " + notes[1] + ")"
}

// FormatMore returns the "... and N more" line for a capped list, or "" when
// nothing was cut.
func FormatMore(total, shown int) string {
	if total <= shown {
		return ""
	}
	return fmt.Sprintf("  ... and %d more", total-shown)
}
