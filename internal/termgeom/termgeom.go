// Package termgeom reports terminal geometry and tty-ness for the process's
// standard streams. Renderer stages use it to pick sensible default sizes
// when neither a profile nor the user supplied one.
package termgeom

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Geometry is a terminal cell grid size.
type Geometry struct {
	Columns int
	Rows    int
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StderrIsTerminal reports whether stderr is attached to a terminal.
func StderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Detect returns the terminal size of stdout. ok is false when stdout is not
// a terminal or the size cannot be read; callers fall back to tool defaults.
func Detect() (Geometry, bool) {
	if !StdoutIsTerminal() {
		return Geometry{}, false
	}
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return Geometry{}, false
	}
	return Geometry{Columns: cols, Rows: rows}, true
}
