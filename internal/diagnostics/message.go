// Package diagnostics implements CoreVM's structured error/warning model:
// a Message carries a kind, a source range, and text; a Report is a sink
// for messages with two implementations (spec.md 4.B).
package diagnostics

import "fmt"

// Kind is the closed taxonomy of diagnostic kinds (spec.md 4.B / 7).
type Kind uint8

const (
	TokenError Kind = iota
	SyntaxError
	TypeError
	Warning
	LinkError
)

func (k Kind) String() string {
	switch k {
	case TokenError:
		return "token error"
	case SyntaxError:
		return "syntax error"
	case TypeError:
		return "type error"
	case Warning:
		return "warning"
	case LinkError:
		return "link error"
	default:
		return "unknown"
	}
}

// IsFailure reports whether this kind counts toward Report.containsFailures.
// Only Warning is non-fatal.
func (k Kind) IsFailure() bool {
	return k != Warning
}

// Position is a single file:line:col location.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Range is a half-open [Start, End) source range. End may be zero-valued
// when a diagnostic refers to a single point.
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string {
	if r.End == (Position{}) || r.End == r.Start {
		return r.Start.String()
	}
	return fmt.Sprintf("%s-%d:%d", r.Start.String(), r.End.Line, r.End.Column)
}

// Message is one diagnostic: kind, source range, text. Notes and Help are
// additive (SPEC_FULL.md 3) and do not change equality/dedup semantics,
// which operate on Kind+Range.Start+Text only.
type Message struct {
	Kind  Kind
	Range Range
	Text  string
	Notes []string
	Help  string
}

// Equal implements the message-level equality used by difference(a,b):
// it ignores filename and end location, per spec.md 4.B.
func (m Message) Equal(other Message) bool {
	return m.Kind == other.Kind &&
		m.Range.Start.Line == other.Range.Start.Line &&
		m.Range.Start.Column == other.Range.Start.Column &&
		m.Text == other.Text
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s: %s", m.Range.Start, m.Kind, m.Text)
}
