package diagnostics

import (
	"bytes"
	"strings"
	"testing"
)

func TestImmediateReportCountsFailuresNotWarnings(t *testing.T) {
	var buf bytes.Buffer
	r := NewImmediateReport(&buf)
	r.Color = ColorNever
	r.Warningf(Range{}, "use of experimental builtin %s", "foo")
	if r.ContainsFailures() {
		t.Fatalf("a lone warning must not count as a failure")
	}
	r.SyntaxErrorf(Range{}, "unexpected token")
	if !r.ContainsFailures() {
		t.Fatalf("a syntax error must count as a failure")
	}
	if !strings.Contains(buf.String(), "unexpected token") {
		t.Errorf("expected message text in output, got %q", buf.String())
	}
}

func TestBufferedReportDifferenceIgnoresFileAndEnd(t *testing.T) {
	a := NewBufferedReport()
	a.Push(Message{Kind: TypeError, Range: Range{Start: Position{File: "a.sh", Line: 1, Column: 2}}, Text: "bad type"})
	b := NewBufferedReport()
	b.Push(Message{Kind: TypeError, Range: Range{Start: Position{File: "b.sh", Line: 1, Column: 2}, End: Position{Line: 1, Column: 9}}, Text: "bad type"})

	if !a.Equal(b) {
		t.Fatalf("reports should be equal once filename/end are ignored")
	}

	c := NewBufferedReport()
	c.Push(Message{Kind: TypeError, Range: Range{Start: Position{Line: 2, Column: 2}}, Text: "bad type"})
	inANotC, inCNotA := Difference(a, c)
	if len(inANotC) != 1 || len(inCNotA) != 1 {
		t.Fatalf("expected one-sided difference on both sides, got %v / %v", inANotC, inCNotA)
	}
}

func TestMessageEqualIgnoresEndAndFile(t *testing.T) {
	m1 := Message{Kind: Warning, Range: Range{Start: Position{File: "x", Line: 3, Column: 4}}, Text: "t"}
	m2 := Message{Kind: Warning, Range: Range{Start: Position{File: "y", Line: 3, Column: 4}, End: Position{Line: 99, Column: 1}}, Text: "t"}
	if !m1.Equal(m2) {
		t.Errorf("expected Equal to ignore filename and end position")
	}
}
