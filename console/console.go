// Package console abstracts the process streams a command line program
// writes to, plus the terminal facts help and error output depend on.
package console

import (
	"io"
	"os"
	"strconv"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Console centralizes IO and terminal capabilities
type Console struct {
	out io.Writer
	err io.Writer

	forceColor bool
	noColor    bool
}

// New returns a console bound to process stdio
func New() *Console {
	return &Console{out: os.Stdout, err: os.Stderr}
}

// Buffered returns a console writing to the given writers, without color.
// Tests use it to capture output.
func Buffered(out, err io.Writer) *Console {
	return &Console{out: out, err: err, noColor: true}
}

// ForceColor enables styling even when a writer is not a terminal.
// NO_COLOR still wins.
func (c *Console) ForceColor() *Console { c.forceColor = true; c.noColor = false; return c }

// NoColor disables color output, regardless of environment.
func (c *Console) NoColor() *Console { c.noColor = true; c.forceColor = false; return c }

// Out returns the configured standard output writer.
func (c *Console) Out() io.Writer { return c.out }

// Err returns the configured standard error writer.
func (c *Console) Err() io.Writer { return c.err }

// IsOutputRedirected reports whether stdout is not a terminal.
func (c *Console) IsOutputRedirected() bool { return !isTerminal(c.out) }

// IsErrorRedirected reports whether stderr is not a terminal.
func (c *Console) IsErrorRedirected() bool { return !isTerminal(c.err) }

// Width returns the output width in columns. Redirected output falls back
// to $COLUMNS and then to 80.
func (c *Console) Width() int {
	if f, ok := c.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return 80
}

// Profile returns the color profile for text written to w. Each writer is
// judged on its own, so stderr redirected to a file gets no escapes while
// stdout on a terminal keeps them.
func (c *Console) Profile(w io.Writer) termenv.Profile {
	if c.noColor {
		return termenv.Ascii
	}
	if !c.forceColor {
		return termenv.NewOutput(w).Profile
	}
	o := termenv.NewOutput(w, termenv.WithTTY(true))
	if o.EnvNoColor() {
		return termenv.Ascii
	}
	if o.Profile == termenv.Ascii {
		return termenv.ANSI
	}
	return o.Profile
}

// OutProfile returns the color profile of standard output. It is plain
// text whenever stdout is redirected, unless color is forced.
func (c *Console) OutProfile() termenv.Profile {
	if c.IsOutputRedirected() && !c.forceColor {
		return termenv.Ascii
	}
	return c.Profile(c.out)
}

// ErrProfile returns the color profile of standard error. It is plain
// text whenever stderr is redirected, unless color is forced.
func (c *Console) ErrProfile() termenv.Profile {
	if c.IsErrorRedirected() && !c.forceColor {
		return termenv.Ascii
	}
	return c.Profile(c.err)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && f != nil && term.IsTerminal(int(f.Fd()))
}
