// Package check provides the filesystem case-sensitivity probe and the
// diagnostics command (namedrop check).
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/psiborg/namedrop/internal/config"
	"github.com/psiborg/namedrop/internal/naming"
	"github.com/psiborg/namedrop/internal/pipeline"
	"github.com/spf13/afero"
)

// Sentinel errors returned by CaseInsensitive.
var (
	ErrNotDirectory = errors.New("not a directory")
	ErrProbeFailed  = errors.New("case-sensitivity probe failed")
)

// probePrefix starts every probe file name. The name carries the pipeline
// temp suffix so discovery and the watcher never pick it up.
const probePrefix = ".NameDrop-Probe-"

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// CaseInsensitive reports whether dir treats names that differ only in
// letter case as the same entry. It stats the case-swapped name of an
// existing entry. Only when dir holds no usable entry does it write a
// mixed-case probe file, stat the swapped name and remove the probe again.
func CaseInsensitive(fs afero.Fs, dir string) (bool, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrNotDirectory, dir, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	if name, ok := existingCandidate(fs, dir); ok {
		return swappedExists(fs, dir, name)
	}

	name := probePrefix + uuid.NewString()[:8] + pipeline.TempSuffix
	path := filepath.Join(dir, name)
	if err := afero.WriteFile(fs, path, nil, 0o600); err != nil {
		return false, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	defer fs.Remove(path)
	return swappedExists(fs, dir, name)
}

// existingCandidate picks an entry of dir whose case-swapped name differs
// from it and is not listed itself.
func existingCandidate(fs afero.Fs, dir string) (string, bool) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", false
	}
	listed := make(map[string]bool, len(entries))
	for _, e := range entries {
		listed[e.Name()] = true
	}
	for _, e := range entries {
		if swapped := swapCase(e.Name()); swapped != e.Name() && !listed[swapped] {
			return e.Name(), true
		}
	}
	return "", false
}

func swappedExists(fs afero.Fs, dir, name string) (bool, error) {
	_, err := fs.Stat(filepath.Join(dir, swapCase(name)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
}

func swapCase(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case unicode.IsUpper(r):
			out[i] = unicode.ToLower(r)
		case unicode.IsLower(r):
			out[i] = unicode.ToUpper(r)
		}
	}
	return string(out)
}

// DefaultCaseInsensitive is the platform guess used when probing fails:
// default macOS and Windows volumes fold case.
func DefaultCaseInsensitive() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "windows"
}

// ResolveCaseFolding decides the case capability of each directory. An
// explicit override applies to every directory. In auto mode each directory
// is probed; a directory whose probe fails, and any directory not probed,
// uses [DefaultCaseInsensitive].
func ResolveCaseFolding(fs afero.Fs, mode config.CaseSensitivity, dirs []string, log Logger) naming.Folding {
	switch mode {
	case config.CaseSensitivitySensitive:
		return naming.Folding{}
	case config.CaseSensitivityInsensitive:
		return naming.Folding{Default: true}
	}
	fold := naming.Folding{Default: DefaultCaseInsensitive(), Dirs: make(map[string]bool, len(dirs))}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = filepath.Clean(dir)
		}
		insensitive, err := CaseInsensitive(fs, abs)
		if err != nil {
			log.Warn("Case probe failed, assuming platform default for %s: %v", dir, err)
			continue
		}
		fold.Dirs[abs] = insensitive
	}
	return fold
}

// RunCheck runs the interactive diagnostics flow: prints the platform, the
// case sensitivity of each directory, the effective rules and a sample
// timestamp name. This is informational only; it does not stop on failure.
func RunCheck(cfg *config.Config, fs afero.Fs, log Logger, dirs ...string) {
	log.Info("=== System Check ===")
	log.Info("Platform: %s/%s (default case-insensitive: %t)", runtime.GOOS, runtime.GOARCH, DefaultCaseInsensitive())

	checkDirs(fs, log, dirs)
	if cfg.CaseSensitivity != config.CaseSensitivityAuto {
		log.Warn("Case sensitivity forced to %q by configuration", cfg.CaseSensitivity)
	}

	log.Info("Rules: %s", cfg.Rules.Summary())
	checkTimestampFormat(log, cfg.Rules.TimestampFormat)
	log.Info("Metadata timestamps: EXIF for JPEG and TIFF, modification time otherwise")
}

func checkDirs(fs afero.Fs, log Logger, dirs []string) {
	if len(dirs) == 0 {
		log.Info("No directories given; skipping case probe")
		return
	}
	for _, dir := range dirs {
		insensitive, err := CaseInsensitive(fs, dir)
		switch {
		case err != nil:
			log.Error("%v", err)
		case insensitive:
			log.Success("%s: case-insensitive (case-only renames use a temporary name)", dir)
		default:
			log.Success("%s: case-sensitive", dir)
		}
	}
}

func checkTimestampFormat(log Logger, pattern string) {
	f, err := config.CompileTimestampFormat(pattern)
	if err != nil {
		log.Error("%v", err)
		return
	}
	log.Success("Timestamp format %s: e.g. %s", pattern, f.FormatString(time.Now()))
}
