// Package watch implements drop-folder mode: files created in the watched
// directories are collected and renamed in debounced batches.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/psiborg/namedrop/internal/config"
	"github.com/psiborg/namedrop/internal/display"
	"github.com/psiborg/namedrop/internal/pipeline"
	"github.com/psiborg/namedrop/internal/planner"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ErrNoDirs is returned by Run when there is nothing to watch.
var ErrNoDirs = errors.New("no directories to watch")

// BatchFunc applies one batch. Each call must plan with a fresh namespace.
type BatchFunc func(ctx context.Context, files []planner.FileEntry) (pipeline.Result, error)

// Options configures a watch session.
type Options struct {
	Dirs []string
	// Debounce is the quiet period before a batch; default config.DefaultWatchDebounce.
	Debounce time.Duration
	// Filter holds the include/exclude globs for dropped files.
	Filter pipeline.DiscoverOptions
	// Fs defaults to the OS filesystem.
	Fs      afero.Fs
	Log     pipeline.Logger
	Verbose bool
	Apply   BatchFunc
	// OnResult is optional and called after every batch.
	OnResult func(pipeline.Result)
}

// Run watches opts.Dirs until ctx is cancelled or SIGINT/SIGTERM arrives.
// Batches run on the event loop, so a signal takes effect between batches.
func Run(ctx context.Context, opts Options) error {
	if len(opts.Dirs) == 0 {
		return ErrNoDirs
	}
	if opts.Apply == nil {
		return errors.New("watch: no batch function")
	}
	dirs := make([]string, 0, len(opts.Dirs))
	for _, dir := range opts.Dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		dirs = append(dirs, abs)
	}
	opts.Dirs = dirs
	s := newSession(opts)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	for _, dir := range opts.Dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	s.log.Info("Watching %s (debounce %s); press Ctrl+C to stop", strings.Join(opts.Dirs, ", "), s.debounce)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.loop(gCtx, w)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			s.log.Info("Received %s, stopping after the current batch", sig)
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

// session holds the state of one watch run. It is owned by the event loop.
type session struct {
	opts     Options
	fs       afero.Fs
	log      pipeline.Logger
	debounce time.Duration
	pending  *Pending
	produced map[string]bool // Targets of our own renames, ignored once.
}

func newSession(opts Options) *session {
	s := &session{
		opts:     opts,
		fs:       opts.Fs,
		log:      opts.Log,
		debounce: opts.Debounce,
		pending:  NewPending(),
		produced: make(map[string]bool),
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.log == nil {
		s.log = quietLogger{}
	}
	if s.debounce <= 0 {
		s.debounce = config.DefaultWatchDebounce
	}
	return s
}

func (s *session) loop(ctx context.Context, w *fsnotify.Watcher) error {
	var timer *time.Timer
	var timerC <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(s.debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.log.Info("Watcher stopped (%s pending)", display.FormatCount(s.pending.Len(), "file"))
			return nil

		case <-timerC:
			timerC = nil
			s.flush(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if s.handle(ev) {
				schedule()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Error("Watcher: %v", err)
		}
	}
}

// handle updates the pending set for one event and reports whether a batch
// should be scheduled.
func (s *session) handle(ev fsnotify.Event) bool {
	path := ev.Name
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		s.pending.Remove(path)
		return false
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	name := filepath.Base(path)
	if pipeline.IsTempName(name) {
		return false
	}
	if s.produced[path] {
		delete(s.produced, path)
		return false
	}
	info, err := s.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if ok, err := pipeline.MatchName(name, s.opts.Filter); err != nil || !ok {
		return false
	}
	if s.pending.Add(path) {
		s.log.Debug(s.opts.Verbose, "Queued %s", name)
	}
	return true
}

// flush applies the pending set as one batch. The set is cleared only when
// the batch renamed at least one file; otherwise it is kept for the next one.
func (s *session) flush(ctx context.Context) {
	files, err := pipeline.Discover(s.fs, s.pending.Paths(), pipeline.DiscoverOptions{}, s.log)
	if err != nil {
		s.log.Error("Batch: %v", err)
		return
	}
	if len(files) == 0 {
		s.pending.Clear()
		return
	}

	s.log.Info("Batch: %s", display.FormatCount(len(files), "file"))
	res, err := s.opts.Apply(ctx, files)
	if err != nil {
		s.log.Error("Batch failed: %v", err)
		return
	}
	for _, o := range res.Files {
		if o.Status == pipeline.StatusRenamed {
			s.produced[filepath.Join(filepath.Dir(o.Path), o.NewName)] = true
		}
	}
	if s.opts.OnResult != nil {
		s.opts.OnResult(res)
	}
	if res.ShouldClear() {
		s.pending.Clear()
		return
	}
	s.log.Debug(s.opts.Verbose, "Keeping %s for the next batch", display.FormatCount(s.pending.Len(), "file"))
}

type quietLogger struct{}

func (quietLogger) Info(string, ...interface{})        {}
func (quietLogger) Success(string, ...interface{})     {}
func (quietLogger) Warn(string, ...interface{})        {}
func (quietLogger) Error(string, ...interface{})       {}
func (quietLogger) Debug(bool, string, ...interface{}) {}
