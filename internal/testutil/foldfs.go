// Package testutil provides shared test helpers: filesystem fixtures and a
// case-insensitive filesystem double.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// FoldFs wraps an afero.Fs and resolves the last path element without regard
// to letter case, the way default macOS and Windows volumes do. Renaming a
// file onto a case variant of its own name is silently ignored, and renaming
// onto a different existing file fails with os.ErrExist.
type FoldFs struct {
	afero.Fs
}

// NewFoldFs wraps a fresh in-memory filesystem.
func NewFoldFs() *FoldFs {
	return &FoldFs{Fs: afero.NewMemMapFs()}
}

// resolve returns the stored spelling of name, or name when nothing matches.
func (f *FoldFs) resolve(name string) string {
	dir, base := filepath.Split(filepath.Clean(name))
	entries, err := afero.ReadDir(f.Fs, dir)
	if err != nil {
		return name
	}
	for _, e := range entries {
		if e.Name() == base {
			return filepath.Join(dir, e.Name())
		}
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), base) {
			return filepath.Join(dir, e.Name())
		}
	}
	return name
}

func (f *FoldFs) Create(name string) (afero.File, error) {
	return f.Fs.Create(f.resolve(name))
}

func (f *FoldFs) Open(name string) (afero.File, error) {
	return f.Fs.Open(f.resolve(name))
}

func (f *FoldFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return f.Fs.OpenFile(f.resolve(name), flag, perm)
}

func (f *FoldFs) Remove(name string) error {
	return f.Fs.Remove(f.resolve(name))
}

func (f *FoldFs) Stat(name string) (os.FileInfo, error) {
	return f.Fs.Stat(f.resolve(name))
}

func (f *FoldFs) Chmod(name string, mode os.FileMode) error {
	return f.Fs.Chmod(f.resolve(name), mode)
}

func (f *FoldFs) Chtimes(name string, atime, mtime time.Time) error {
	return f.Fs.Chtimes(f.resolve(name), atime, mtime)
}

func (f *FoldFs) Name() string { return "FoldFs" }

func (f *FoldFs) Rename(oldname, newname string) error {
	src, dst := f.resolve(oldname), f.resolve(newname)
	if src == dst {
		return nil
	}
	if _, err := f.Fs.Stat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrExist}
	}
	return f.Fs.Rename(src, newname)
}

// Touch writes a file at path on fs holding the path itself, creating parent
// directories.
func Touch(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, path, []byte(path), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Names lists the base names in dir on fs, in lexical order.
func Names(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}
