package pipeline

import "fmt"

// Status is the final per-file result of a batch run.
type Status int

const (
	StatusRenamed Status = iota
	StatusSkipped
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusSkipped:
		return "skipped"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// FileOutcome is what happened to one file.
type FileOutcome struct {
	Path    string // Source path.
	OldName string
	NewName string // Empty when no target was computed.
	Status  Status
	Message string // Error text for StatusError.
}

// Result tracks aggregate counters and per-file outcomes across a batch run.
type Result struct {
	Renamed   int
	Unchanged int
	Errors    int
	Files     []FileOutcome // In plan order.
}

func (r *Result) add(o FileOutcome) {
	switch o.Status {
	case StatusRenamed:
		r.Renamed++
	case StatusSkipped:
		r.Unchanged++
	case StatusError:
		r.Errors++
	}
	r.Files = append(r.Files, o)
}

// Total is the number of files in the run.
func (r Result) Total() int { return len(r.Files) }

// Failed returns the outcomes with StatusError.
func (r Result) Failed() []FileOutcome {
	var out []FileOutcome
	for _, f := range r.Files {
		if f.Status == StatusError {
			out = append(out, f)
		}
	}
	return out
}

// ShouldClear reports whether the caller should drop its working file set:
// true once at least one file was renamed.
func (r Result) ShouldClear() bool { return r.Renamed > 0 }
