package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/psiborg/namedrop/internal/config"
	"github.com/psiborg/namedrop/internal/naming"
	"github.com/psiborg/namedrop/internal/probe"
	"github.com/psiborg/namedrop/internal/testutil"
	"github.com/spf13/afero"
)

// --- Helper builders ---

func rules(mode config.CaseMode) config.RuleConfig {
	r := config.DefaultRules()
	r.CaseMode = mode
	return r
}

func entries(t *testing.T, fs afero.Fs, paths ...string) []FileEntry {
	t.Helper()
	out := make([]FileEntry, 0, len(paths))
	for _, p := range paths {
		testutil.Touch(t, fs, p)
		e, err := NewFileEntry(p)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, e)
	}
	return out
}

func fixedClock(ts time.Time) probe.Source {
	return probe.SourceFunc(func(string) (time.Time, probe.Tag, bool) { return ts, probe.TagMetadata, true })
}

func mustPlan(t *testing.T, files []FileEntry, r config.RuleConfig, opts Options) []PlanEntry {
	t.Helper()
	plan, err := BuildPlan(files, r, opts)
	if err != nil {
		t.Fatalf("BuildPlan() = %v", err)
	}
	if len(plan) != len(files) {
		t.Fatalf("plan has %d entries for %d files", len(plan), len(files))
	}
	for i := range plan {
		if plan[i].File.Path != files[i].Path {
			t.Fatalf("entry %d is %s, want input order (%s)", i, plan[i].File.Path, files[i].Path)
		}
	}
	return plan
}

func TestNewFileEntry(t *testing.T) {
	e, err := NewFileEntry("/photos/trip/IMG_0001.JPG")
	if err != nil {
		t.Fatal(err)
	}
	if e.Dir != "/photos/trip" || e.Name != "IMG_0001.JPG" || e.Stem != "IMG_0001" || e.Ext != ".JPG" {
		t.Errorf("NewFileEntry = %+v", e)
	}
	rel, err := NewFileEntry("x.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rel.Path, "/") {
		t.Errorf("relative path not made absolute: %q", rel.Path)
	}
}

func TestBuildPlan_Empty(t *testing.T) {
	plan, err := BuildPlan(nil, config.DefaultRules(), Options{Fs: afero.NewMemMapFs()})
	if err != nil || len(plan) != 0 {
		t.Errorf("BuildPlan(nil) = %v, %v; want empty plan", plan, err)
	}
}

func TestBuildPlan_InvalidRules(t *testing.T) {
	r := rules(config.CaseTimestamp)
	r.TimestampFormat = "%Q"
	if _, err := BuildPlan(nil, r, Options{Fs: afero.NewMemMapFs()}); err == nil {
		t.Error("BuildPlan accepted an invalid timestamp pattern")
	}
}

func TestBuildPlan_TitleCase(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/the_lord-of the rings.txt", "/d/Already Fine.txt")
	plan := mustPlan(t, files, rules(config.CaseTitle), Options{Fs: fs})

	if plan[0].Outcome != OutcomeRename || plan[0].Target != "The Lord of the Rings.txt" {
		t.Errorf("entry 0 = %v %q", plan[0].Outcome, plan[0].Target)
	}
	if plan[0].CaseOnly {
		t.Error("entry 0 flagged case-only")
	}
	if plan[1].Outcome != OutcomeNoChange || plan[1].Target != "Already Fine.txt" {
		t.Errorf("entry 1 = %v %q", plan[1].Outcome, plan[1].Target)
	}
}

func TestBuildPlan_ExtensionUnchanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/Holiday.JPG")
	plan := mustPlan(t, files, rules(config.CaseLower), Options{Fs: fs})
	if plan[0].Target != "holiday.JPG" {
		t.Errorf("Target = %q, want holiday.JPG", plan[0].Target)
	}

	// Only the stem is transformed, so an upper-case extension alone is
	// never a rename.
	files = entries(t, fs, "/d/photo.JPG")
	plan = mustPlan(t, files, rules(config.CaseLower), Options{Fs: fs})
	if plan[0].Outcome != OutcomeNoChange || plan[0].Target != "photo.JPG" {
		t.Errorf("photo.JPG = %v %q, want unchanged", plan[0].Outcome, plan[0].Target)
	}
}

func TestBuildPlan_CaseOnly(t *testing.T) {
	for _, tc := range []struct {
		name            string
		fs              afero.Fs
		caseInsensitive bool
	}{
		{"case-sensitive", afero.NewMemMapFs(), false},
		{"case-insensitive", testutil.NewFoldFs(), true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			files := entries(t, tc.fs, "/d/PHOTO.jpg")
			plan := mustPlan(t, files, rules(config.CaseLower), Options{Fs: tc.fs, CaseFolding: naming.Folding{Default: tc.caseInsensitive}})
			e := plan[0]
			if e.Outcome != OutcomeRename || !e.CaseOnly || e.Target != "photo.jpg" {
				t.Errorf("entry = %v caseOnly=%v %q (%s)", e.Outcome, e.CaseOnly, e.Target, e.Reason)
			}
		})
	}
}

func TestBuildPlan_CaseOnlyTargetIsAnotherFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/PHOTO.jpg")
	testutil.Touch(t, fs, "/d/photo.jpg")
	plan := mustPlan(t, files, rules(config.CaseLower), Options{Fs: fs})
	if plan[0].Outcome != OutcomeConflict || !strings.Contains(plan[0].Reason, "already exists") {
		t.Errorf("entry = %v %q", plan[0].Outcome, plan[0].Reason)
	}
}

func TestBuildPlan_FoldedCaseVariantIsAnotherFile(t *testing.T) {
	// A directory assumed to fold case that actually holds both spellings.
	for _, order := range [][]string{
		{"/d/a.txt", "/d/A.txt"},
		{"/d/A.txt", "/d/a.txt"},
	} {
		fs := afero.NewMemMapFs()
		files := entries(t, fs, order...)
		plan := mustPlan(t, files, rules(config.CaseUpper), Options{Fs: fs, CaseFolding: naming.Folding{Default: true}})
		c := Count(plan)
		if c.Rename != 0 || c.NoChange != 1 || c.Conflict != 1 {
			t.Errorf("order %v: counts = %+v, want one unchanged and one conflict", order, c)
		}
	}
}

func TestBuildPlan_FoldingPerDirectory(t *testing.T) {
	fs := testutil.NewFoldFs()
	files := entries(t, fs, "/fold/PHOTO.jpg", "/exact/PHOTO.jpg")
	fold := naming.Folding{Dirs: map[string]bool{"/fold": true}}
	plan := mustPlan(t, files, rules(config.CaseLower), Options{Fs: fs, CaseFolding: fold})

	if e := plan[0]; e.Outcome != OutcomeRename || !e.CaseOnly {
		t.Errorf("folding dir: %v caseOnly=%v (%s)", e.Outcome, e.CaseOnly, e.Reason)
	}
	if e := plan[1]; e.Outcome != OutcomeConflict {
		t.Errorf("exact dir: %v, want the case variant reported as taken", e.Outcome)
	}
}

func TestBuildPlan_ConflictWithinBatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/my_photo.txt", "/d/my-photo.txt")
	plan := mustPlan(t, files, rules(config.CaseTitle), Options{Fs: fs})

	if plan[0].Outcome != OutcomeRename || plan[0].Target != "My Photo.txt" {
		t.Errorf("entry 0 = %v %q", plan[0].Outcome, plan[0].Target)
	}
	if plan[1].Outcome != OutcomeConflict {
		t.Fatalf("entry 1 = %v, want conflict", plan[1].Outcome)
	}
	if want := "Target 'My Photo.txt' already exists"; plan[1].Reason != want {
		t.Errorf("Reason = %q, want %q", plan[1].Reason, want)
	}
}

func TestBuildPlan_UpperCollision(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/img.JPG", "/d/Img.JPG")
	plan := mustPlan(t, files, rules(config.CaseUpper), Options{Fs: fs})
	c := Count(plan)
	if c.Rename+c.NoChange != 1 || c.Conflict != 1 {
		t.Errorf("counts = %+v, want one success and one conflict", c)
	}
	if !strings.Contains(plan[1].Reason, "already exists") {
		t.Errorf("Reason = %q", plan[1].Reason)
	}
}

func TestBuildPlan_ConflictWithDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/report.txt")
	testutil.Touch(t, fs, "/d/REPORT.txt")
	plan := mustPlan(t, files, rules(config.CaseUpper), Options{Fs: fs})
	if plan[0].Outcome != OutcomeConflict {
		t.Errorf("entry = %v, want conflict", plan[0].Outcome)
	}
}

func TestBuildPlan_ConflictDoesNotAbortBatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.Touch(t, fs, "/d/A.txt")
	files := entries(t, fs, "/d/a.txt", "/d/b.txt")
	r := rules(config.CaseUpper)
	plan := mustPlan(t, files, r, Options{Fs: fs})
	if plan[0].Outcome != OutcomeConflict || plan[1].Outcome != OutcomeRename {
		t.Errorf("outcomes = %v, %v", plan[0].Outcome, plan[1].Outcome)
	}
}

func TestBuildPlan_FoldedNamespace(t *testing.T) {
	fs := testutil.NewFoldFs()
	files := entries(t, fs, "/a/x_y.txt", "/b/X-Y.txt")
	// Different directories never share claims.
	plan := mustPlan(t, files, rules(config.CaseTitle), Options{Fs: fs, CaseFolding: naming.Folding{Default: true}})
	if plan[0].Outcome != OutcomeRename || plan[1].Outcome != OutcomeRename {
		t.Errorf("outcomes = %v (%s), %v (%s)", plan[0].Outcome, plan[0].Reason, plan[1].Outcome, plan[1].Reason)
	}

	fs = testutil.NewFoldFs()
	files = entries(t, fs, "/d/one.txt", "/d/two.txt")
	r := rules(config.CaseTimestamp)
	r.TimestampFormat = "Same"
	plan = mustPlan(t, files, r, Options{Fs: fs, CaseFolding: naming.Folding{Default: true}, Timestamps: fixedClock(time.Now())})
	if plan[0].Target != "Same.txt" || plan[1].Target != "Same-0001.txt" {
		t.Errorf("targets = %q, %q", plan[0].Target, plan[1].Target)
	}
}

func TestBuildPlan_InvalidTarget(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/???.txt")
	r := rules(config.CaseTitle)
	r.ReplaceSpecialChars = true
	plan := mustPlan(t, files, r, Options{Fs: fs})
	if plan[0].Outcome != OutcomeConflict || !strings.Contains(plan[0].Reason, "not a valid file name") {
		t.Errorf("entry = %v %q", plan[0].Outcome, plan[0].Reason)
	}
}

func TestBuildPlan_Timestamp(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/a.jpg", "/d/b.jpg", "/d/c.png", "/e/d.jpg")
	testutil.Touch(t, fs, "/d/20240115-143025.jpg")
	ts := time.Date(2024, 1, 15, 14, 30, 25, 0, time.UTC)
	plan := mustPlan(t, files, rules(config.CaseTimestamp), Options{Fs: fs, Timestamps: fixedClock(ts)})

	want := []string{"20240115-143025-0001.jpg", "20240115-143025-0002.jpg", "20240115-143025.png", "20240115-143025.jpg"}
	for i, e := range plan {
		if e.Outcome != OutcomeRename || e.Target != want[i] {
			t.Errorf("entry %d = %v %q, want rename %q (%s)", i, e.Outcome, e.Target, want[i], e.Reason)
		}
		if e.TimestampSource != probe.TagMetadata || !e.Timestamp.Equal(ts) {
			t.Errorf("entry %d timestamp = %v %q", i, e.Timestamp, e.TimestampSource)
		}
	}
}

func TestBuildPlan_TimestampFallbackAndIdempotence(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/20200101-000000.txt")
	mtime := time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	if err := fs.Chtimes(files[0].Path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	plan := mustPlan(t, files, rules(config.CaseTimestamp), Options{Fs: fs})
	e := plan[0]
	if e.Outcome != OutcomeNoChange {
		t.Errorf("entry = %v %q (%s), want unchanged", e.Outcome, e.Target, e.Reason)
	}
	if e.TimestampSource != probe.TagFallback {
		t.Errorf("TimestampSource = %q", e.TimestampSource)
	}
}

func TestBuildPlan_TimestampMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	e, _ := NewFileEntry("/d/gone.jpg")
	plan := mustPlan(t, []FileEntry{e}, rules(config.CaseTimestamp), Options{Fs: fs})
	if plan[0].Outcome != OutcomeConflict || plan[0].Reason == "" {
		t.Errorf("entry = %v %q", plan[0].Outcome, plan[0].Reason)
	}
}

func TestBuildPlan_FreshNamespacePerCall(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := entries(t, fs, "/d/x.txt")
	r := rules(config.CaseUpper)
	first := mustPlan(t, files, r, Options{Fs: fs})
	second := mustPlan(t, files, r, Options{Fs: fs})
	if first[0].Outcome != OutcomeRename || second[0].Outcome != OutcomeRename {
		t.Errorf("claims leaked between runs: %v then %v", first[0].Outcome, second[0].Outcome)
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{
		OutcomeRename: "rename", OutcomeNoChange: "unchanged", OutcomeConflict: "conflict", Outcome(9): "Outcome(9)",
	} {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}
