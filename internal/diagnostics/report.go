package diagnostics

import (
	"fmt"
)

// Report is a sink for diagnostic Messages with format-string convenience
// methods per kind, plus the required containsFailures query (spec.md
// 4.B). Implementations: ImmediateReport (prints as it goes) and
// BufferedReport (accumulates for later inspection/diffing).
type Report interface {
	Push(m Message)
	TokenErrorf(r Range, format string, args ...any)
	SyntaxErrorf(r Range, format string, args ...any)
	TypeErrorf(r Range, format string, args ...any)
	Warningf(r Range, format string, args ...any)
	LinkErrorf(r Range, format string, args ...any)
	ContainsFailures() bool
}

func pushf(rep Report, kind Kind, r Range, format string, args ...any) {
	rep.Push(Message{Kind: kind, Range: r, Text: fmt.Sprintf(format, args...)})
}
