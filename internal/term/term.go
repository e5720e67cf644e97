// Package term holds the ANSI color state shared by the logging and display
// packages, and decides whether an output stream should get colors at all.
//
// The color sequences are package-level strings. When colors are off they
// are empty, so concatenating them into output costs nothing.
package term

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/psiborg/namedrop/internal/config"
)

// ANSI color codes. Empty when colors are disabled.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	Dim     = ""
	NC      = "" // Reset sequence.
)

// palette pairs every color variable with its escape sequence.
var palette = []struct {
	dst *string
	seq string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&Dim, "\033[2m"},
	{&NC, "\033[0m"},
}

// Configure turns the color variables on or off for output written to w.
// It is called once during startup, from logging.NewLogger.
func Configure(mode config.ColorMode, w io.Writer) {
	on := UseColor(mode, w, os.Getenv)
	for _, c := range palette {
		if on {
			*c.dst = c.seq
		} else {
			*c.dst = ""
		}
	}
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// UseColor decides whether output to w gets colors. Auto mode requires a
// terminal and honors NO_COLOR (https://no-color.org) and TERM=dumb, read
// through getenv.
func UseColor(mode config.ColorMode, w io.Writer, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if getenv("NO_COLOR") != "" || strings.EqualFold(getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is a file attached to a TTY, including Cygwin
// and MSYS pseudo terminals. Writers without a file descriptor never are.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	if file, isFile := w.(*os.File); isFile && file == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
