package snapio

import (
	stdio "io"
	"os"
	"runtime"
	"strconv"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IOManager centralizes IO and terminal capabilities
type IOManager struct {
	in  stdio.Reader
	out stdio.Writer
	err stdio.Writer

	forceColor bool
	noColor    bool
}

// New returns a manager bound to process stdio
func New() *IOManager {
	return &IOManager{in: os.Stdin, out: os.Stdout, err: os.Stderr}
}

// WithIn sets the input reader used by the manager and returns the manager for chaining.
func (m *IOManager) WithIn(r stdio.Reader) *IOManager { m.in = r; return m }

// WithOut sets the standard output writer and returns the manager for chaining.
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = w; return m }

// WithErr sets the standard error writer and returns the manager for chaining.
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = w; return m }

// ForceColor forces color output on, regardless of environment.
func (m *IOManager) ForceColor() *IOManager { m.forceColor = true; m.noColor = false; return m }

// NoColor disables color output, regardless of environment.
func (m *IOManager) NoColor() *IOManager { m.noColor = true; m.forceColor = false; return m }

// ColorAuto uses environment heuristics to determine color support.
func (m *IOManager) ColorAuto() *IOManager { m.noColor = false; m.forceColor = false; return m }

// In returns the configured input reader.
func (m *IOManager) In() stdio.Reader { return m.in }

// Out returns the configured standard output writer.
func (m *IOManager) Out() stdio.Writer { return m.out }

// Err returns the configured standard error writer.
func (m *IOManager) Err() stdio.Writer { return m.err }

// IsTTY reports whether the output writer is a terminal.
func (m *IOManager) IsTTY() bool { return isTerminal(m.out) }

// IsPiped reports whether input comes from something other than a terminal.
func (m *IOManager) IsPiped() bool { return !isTerminal(m.in) }

// Width returns the terminal width, COLUMNS, or 80.
func (m *IOManager) Width() int {
	if fd, ok := fileDescriptor(m.out); ok {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if w := envSize("COLUMNS"); w > 0 {
		return w
	}
	return 80
}

// Height returns the terminal height, LINES, or 24.
func (m *IOManager) Height() int {
	if fd, ok := fileDescriptor(m.out); ok {
		if _, h, err := term.GetSize(fd); err == nil && h > 0 {
			return h
		}
	}
	if h := envSize("LINES"); h > 0 {
		return h
	}
	return 24
}

// SupportsColor reports whether ANSI styling should be written to Out.
// NO_COLOR and NoColor win over FORCE_COLOR and ForceColor.
func (m *IOManager) SupportsColor() bool {
	if m.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if m.forceColor || os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if !m.IsTTY() {
		return false
	}
	t := os.Getenv("TERM")
	if runtime.GOOS == "windows" {
		return t != "dumb"
	}
	return t != "" && t != "dumb"
}

// Colorize renders s with the given attributes when color is supported.
func (m *IOManager) Colorize(s string, attrs ...color.Attribute) string {
	return Style(attrs).Sprint(m, s)
}

// Bold returns s in bold when color is supported; otherwise s unchanged.
func (m *IOManager) Bold(s string) string { return m.Colorize(s, color.Bold) }

// Faint returns s in faint intensity when supported; otherwise s unchanged.
func (m *IOManager) Faint(s string) string { return m.Colorize(s, color.Faint) }

// Underline returns s underlined when supported; otherwise s unchanged.
func (m *IOManager) Underline(s string) string { return m.Colorize(s, color.Underline) }

func fileDescriptor(v any) (int, bool) {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

func isTerminal(v any) bool {
	fd, ok := fileDescriptor(v)
	return ok && term.IsTerminal(fd)
}

func envSize(key string) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
