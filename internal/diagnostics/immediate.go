package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Color controls ANSI color use in ImmediateReport; it never changes
// ContainsFailures semantics (SPEC_FULL.md 7).
type Color uint8

const (
	ColorAuto Color = iota
	ColorAlways
	ColorNever
)

// ImmediateReport prints every pushed message to an output stream as it
// arrives and counts failures (spec.md 4.B: "one prints immediately to the
// process error stream and counts failures").
type ImmediateReport struct {
	Out      io.Writer
	Color    Color
	failures int
}

// NewImmediateReport builds a report writing to w. If w is an *os.File,
// ColorAuto resolves via go-isatty against its descriptor.
func NewImmediateReport(w io.Writer) *ImmediateReport {
	return &ImmediateReport{Out: w, Color: ColorAuto}
}

func (r *ImmediateReport) colorEnabled() bool {
	switch r.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if f, ok := r.Out.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func (r *ImmediateReport) Push(m Message) {
	if m.Kind.IsFailure() {
		r.failures++
	}
	if r.colorEnabled() {
		color := ansiRed
		if m.Kind == Warning {
			color = ansiYellow
		}
		fmt.Fprintf(r.Out, "%s%s%s\n", color, m.String(), ansiReset)
	} else {
		fmt.Fprintln(r.Out, m.String())
	}
	for _, n := range m.Notes {
		fmt.Fprintf(r.Out, "  note: %s\n", n)
	}
	if m.Help != "" {
		fmt.Fprintf(r.Out, "  help: %s\n", m.Help)
	}
}

func (r *ImmediateReport) TokenErrorf(rng Range, format string, args ...any) {
	pushf(r, TokenError, rng, format, args...)
}
func (r *ImmediateReport) SyntaxErrorf(rng Range, format string, args ...any) {
	pushf(r, SyntaxError, rng, format, args...)
}
func (r *ImmediateReport) TypeErrorf(rng Range, format string, args ...any) {
	pushf(r, TypeError, rng, format, args...)
}
func (r *ImmediateReport) Warningf(rng Range, format string, args ...any) {
	pushf(r, Warning, rng, format, args...)
}
func (r *ImmediateReport) LinkErrorf(rng Range, format string, args ...any) {
	pushf(r, LinkError, rng, format, args...)
}

func (r *ImmediateReport) ContainsFailures() bool { return r.failures > 0 }

var _ Report = (*ImmediateReport)(nil)
