// Package term holds framecast's console styling state.
//
// The logger colors its level tags with the variables below and the check
// banner is painted with [Paint]. Both read the same globals, so a single
// [Configure] call from [logging.NewLogger] decides color for the whole run.
// [CanRedraw] gates the live progress bar of the convert command.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/framecast/internal/config"
)

// Escape sequences for log level tags. All empty while color is off.
var (
	Red     = "" // ERROR
	Green   = "" // SUCCESS
	Yellow  = "" // WARN
	Blue    = "" // INFO
	Cyan    = "" // DEBUG
	Magenta = "" // RENDER, banner
	NC      = ""
)

type palette struct{ red, green, yellow, blue, cyan, magenta, reset string }

var bold = palette{
	red:     "\033[1;91m",
	green:   "\033[1;92m",
	yellow:  "\033[1;93m",
	blue:    "\033[1;94m",
	cyan:    "\033[1;96m",
	magenta: "\033[1;95m",
	reset:   "\033[0m",
}

func (p palette) apply() {
	Red, Green, Yellow, Blue, Cyan, Magenta, NC = p.red, p.green, p.yellow, p.blue, p.cyan, p.magenta, p.reset
}

// Configure turns color on or off for the run. Auto mode checks stdout,
// where framecast writes its log lines.
func Configure(mode config.ColorMode) {
	if colorWanted(mode, os.Stdout) {
		bold.apply()
		return
	}
	palette{}.apply()
}

// Enabled reports whether color is on.
func Enabled() bool { return NC != "" }

// Paint wraps s in color followed by a reset. With color off, or an empty
// color, s is returned unchanged.
func Paint(color, s string) string {
	if color == "" || NC == "" {
		return s
	}
	return color + s + NC
}

// CanRedraw reports whether f can host an in-place progress bar: a TTY whose
// TERM understands cursor movement.
func CanRedraw(f *os.File) bool {
	return IsTerminal(f) && !dumbTerminal()
}

// colorWanted honours NO_COLOR (https://no-color.org) only in auto mode.
func colorWanted(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return CanRedraw(f) && os.Getenv("NO_COLOR") == ""
}

func dumbTerminal() bool {
	return strings.EqualFold(os.Getenv("TERM"), "dumb")
}

// IsTerminal reports whether f is a TTY, Cygwin and MSYS ptys included.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
