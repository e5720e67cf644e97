package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/psiborg/namedrop/internal/config"
	"github.com/spf13/afero"
)

// MaxSuffix bounds the counter search in timestamp mode.
const MaxSuffix = 9999

// ErrNamespaceExhausted is returned when every counter up to MaxSuffix is
// taken for a candidate.
var ErrNamespaceExhausted = errors.New("no free name left")

// Folding records, per directory, whether names that differ only in letter
// case are the same entry. Directories missing from Dirs use Default.
type Folding struct {
	Default bool
	Dirs    map[string]bool // Absolute, cleaned directory → folds case.
}

// In reports whether dir folds case.
func (f Folding) In(dir string) bool {
	if v, ok := f.Dirs[dir]; ok {
		return v
	}
	return f.Default
}

// Namespace tracks the names claimed in each directory during one run. Claims
// only grow. A Namespace must not be shared between runs and is not safe for
// concurrent use.
type Namespace struct {
	fold Folding
	dirs map[string]map[string]struct{} // directory → claimed names
}

// NewNamespace returns an empty Namespace. In directories where fold is set,
// names that differ only in letter case are the same claim.
func NewNamespace(fold Folding) *Namespace {
	return &Namespace{fold: fold, dirs: make(map[string]map[string]struct{})}
}

func (ns *Namespace) key(dir, name string) string {
	if ns.fold.In(dir) {
		return strings.ToLower(name)
	}
	return name
}

// Folds reports whether claims in dir ignore letter case.
func (ns *Namespace) Folds(dir string) bool { return ns.fold.In(dir) }

// Claim records name as assigned in dir.
func (ns *Namespace) Claim(dir, name string) {
	claimed, ok := ns.dirs[dir]
	if !ok {
		claimed = make(map[string]struct{})
		ns.dirs[dir] = claimed
	}
	claimed[ns.key(dir, name)] = struct{}{}
}

// IsClaimed reports whether name has already been assigned in dir.
func (ns *Namespace) IsClaimed(dir, name string) bool {
	_, ok := ns.dirs[dir][ns.key(dir, name)]
	return ok
}

// OccupiedByOther reports whether path exists as a directory entry distinct
// from self. A case variant that resolves to self itself, as on a folding
// filesystem, is not occupied. Entries are compared with [os.SameFile], and by
// the stored base name for filesystems without OS file identity.
func OccupiedByOther(fs afero.Fs, path, self string) (bool, error) {
	target, err := fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	own, err := fs.Stat(self)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if os.SameFile(target, own) {
		return false, nil
	}
	return target.Name() != own.Name(), nil
}

// Resolver answers "is this name free?" against both the run's claims and
// the disk. It never mutates either.
type Resolver struct {
	fs afero.Fs
	ns *Namespace
}

// NewResolver binds a Namespace to the filesystem it describes.
func NewResolver(fs afero.Fs, ns *Namespace) *Resolver {
	return &Resolver{fs: fs, ns: ns}
}

// Taken reports whether name is unavailable in dir for the file currently
// named self. The file's own name is not counted as an on-disk collision.
// Where dir folds case, a case variant of self is taken only when it is a
// different file on disk.
func (r *Resolver) Taken(dir, name, self string) bool {
	if r.ns.IsClaimed(dir, name) {
		return true
	}
	if name == self {
		return false
	}
	path := filepath.Join(dir, name)
	if r.ns.Folds(dir) && strings.EqualFold(name, self) {
		other, err := OccupiedByOther(r.fs, path, filepath.Join(dir, self))
		return other || err != nil
	}
	exists, err := afero.Exists(r.fs, path)
	return exists || err != nil
}

// Resolve returns the final name for stem+ext in dir. A free candidate is
// returned as is. Outside timestamp mode a taken candidate is also returned
// as is and the caller reports the conflict. In timestamp mode a "-NNNN"
// counter is inserted before the extension until the name is free.
func (r *Resolver) Resolve(dir, stem, ext, self string, mode config.CaseMode) (string, error) {
	candidate := stem + ext
	if mode != config.CaseTimestamp || !r.Taken(dir, candidate, self) {
		return candidate, nil
	}
	for n := 1; n <= MaxSuffix; n++ {
		candidate = fmt.Sprintf("%s-%04d%s", stem, n, ext)
		if !r.Taken(dir, candidate, self) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for %s in %s", ErrNamespaceExhausted, stem+ext, dir)
}
