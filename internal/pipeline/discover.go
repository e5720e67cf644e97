package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/psiborg/namedrop/internal/planner"
	"github.com/spf13/afero"
)

// DiscoverOptions controls directory expansion.
type DiscoverOptions struct {
	Recursive bool
	Include   []string // Base-name globs; empty takes every file.
	Exclude   []string // Base-name globs applied after Include.
}

// Discover expands paths into file entries in input order. A file path is
// taken as is. A directory contributes its regular files sorted by name
// (descending into subdirectories when Recursive), filtered by the globs.
// Duplicates keep their first position. Missing or unreadable paths are
// logged and skipped, as is an unreadable subtree during recursion; only a
// malformed glob is returned as an error.
func Discover(fs afero.Fs, paths []string, opts DiscoverOptions, log Logger) ([]planner.FileEntry, error) {
	if log == nil {
		log = nopLogger{}
	}
	var files []planner.FileEntry
	seen := make(map[string]bool)
	add := func(path string) {
		e, err := planner.NewFileEntry(path)
		if err != nil {
			log.Warn("Skip: %v", err)
			return
		}
		if seen[e.Path] {
			return
		}
		seen[e.Path] = true
		files = append(files, e)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			log.Warn("Skip (bad path): %s: %v", p, err)
			continue
		}
		info, err := fs.Stat(abs)
		if err != nil {
			log.Warn("Skip (not found): %s", p)
			continue
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		found, err := expandDir(fs, abs, opts, log)
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, err
		}
		if err != nil {
			log.Warn("Skip (unreadable): %s: %v", p, err)
			continue
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// expandDir lists the regular files under dir that pass the globs. afero
// returns entries sorted by name.
func expandDir(fs afero.Fs, dir string, opts DiscoverOptions, log Logger) ([]string, error) {
	var out []string
	keep := func(path string, info os.FileInfo) error {
		if !info.Mode().IsRegular() || IsTempName(info.Name()) {
			return nil
		}
		ok, err := MatchName(info.Name(), opts)
		if err != nil {
			return err
		}
		if ok {
			out = append(out, path)
		}
		return nil
	}

	if opts.Recursive {
		err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if path == dir {
					return err
				}
				log.Warn("Skip (unreadable): %s: %v", path, err)
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return keep(path, info)
		})
		return out, err
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}
	for _, info := range entries {
		if err := keep(filepath.Join(dir, info.Name()), info); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MatchName reports whether a base name passes the include and exclude globs.
func MatchName(name string, opts DiscoverOptions) (bool, error) {
	if len(opts.Include) > 0 {
		matched := false
		for _, pattern := range opts.Include {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return false, err
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	for _, pattern := range opts.Exclude {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// IsTempName reports whether name is an intermediate case-rename file.
func IsTempName(name string) bool {
	return strings.HasSuffix(name, TempSuffix)
}

// Dirs returns the distinct parent directories of files in first-seen order.
func Dirs(files []planner.FileEntry) []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, f := range files {
		if !seen[f.Dir] {
			seen[f.Dir] = true
			dirs = append(dirs, f.Dir)
		}
	}
	return dirs
}
