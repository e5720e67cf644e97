// Package logging provides the leveled console logger with an optional
// append-only file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/psiborg/namedrop/internal/config"
	"github.com/psiborg/namedrop/internal/term"
	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger provides leveled, optionally colored logging with optional file sink.
// ERROR lines go to stderr, everything else to stdout.
type Logger struct {
	mu     sync.Mutex
	stdout zerolog.Logger
	stderr zerolog.Logger
	sink   *zerolog.Logger
	file   *os.File
}

// NewLogger initializes colors from cfg and optionally opens cfg.LogFile.
// Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode, os.Stdout)
	l := newLogger(colorable.NewColorable(os.Stdout), colorable.NewColorable(os.Stderr), term.Enabled())

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		sink := console(f, false)
		l.sink = &sink
		l.file = f
	}
	return l, nil
}

func newLogger(stdout, stderr io.Writer, color bool) *Logger {
	return &Logger{
		stdout: console(stdout, color),
		stderr: console(stderr, color),
	}
}

// console renders "<time> [LEVEL] message" lines. zerolog's own coloring is
// off; the level tag is colored from term when color is set.
func console(w io.Writer, color bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:         w,
		NoColor:     true,
		TimeFormat:  timeFormat,
		FormatLevel: levelTag(color),
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}

func levelTag(color bool) zerolog.Formatter {
	return func(i interface{}) string {
		level := strings.ToUpper(fmt.Sprint(i))
		tag := "[" + level + "]"
		if c := levelColor(level); color && c != "" {
			return c + tag + term.NC
		}
		return tag
	}
}

func levelColor(level string) string {
	switch level {
	case "INFO":
		return term.Blue
	case "SUCCESS":
		return term.Green
	case "WARN":
		return term.Yellow
	case "ERROR":
		return term.Red
	case "DEBUG":
		return term.Cyan
	}
	return ""
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.sink = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := &l.stdout
	if level == "ERROR" {
		out = &l.stderr
	}
	out.Log().Str(zerolog.LevelFieldName, level).Msg(text)
	if l.sink != nil {
		l.sink.Log().Str(zerolog.LevelFieldName, level).Msg(text)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line("DEBUG", fmt.Sprintf(format, args...))
}
