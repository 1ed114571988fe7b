package match

import (
	"testing"

	"github.com/contour-terminal/endo/internal/bytecode"
)

func newDef(pool *bytecode.ConstantPool, class bytecode.MatchClass, elsePC int, labelsToPC map[string]int) *bytecode.MatchDef {
	def := &bytecode.MatchDef{Class: class, ElsePC: elsePC}
	for label, pc := range labelsToPC {
		def.Cases = append(def.Cases, bytecode.MatchCase{LabelIndex: pool.MakeString(label), PC: pc})
	}
	return def
}

func TestSameDispatcherExactMatchAndElse(t *testing.T) {
	pool := bytecode.NewConstantPool()
	def := newDef(pool, bytecode.MatchSame, 99, map[string]int{"foo": 1, "bar": 2})
	d := Build(pool, def)

	if pc, groups := d.Evaluate("foo"); pc != 1 || groups != nil {
		t.Fatalf("Evaluate(foo) = (%d, %v), want (1, nil)", pc, groups)
	}
	if pc, _ := d.Evaluate("bar"); pc != 2 {
		t.Fatalf("Evaluate(bar) = %d, want 2", pc)
	}
	if pc, _ := d.Evaluate("baz"); pc != 99 {
		t.Fatalf("Evaluate(baz) = %d, want elsePC 99", pc)
	}
}

// TestHeadDispatcherLongestPrefixWithAncestorFallback exercises the
// exact example walked through in spec.md 4: cases "foo" -> A, "foobar"
// -> B, else E.
func TestHeadDispatcherLongestPrefixWithAncestorFallback(t *testing.T) {
	pool := bytecode.NewConstantPool()
	def := newDef(pool, bytecode.MatchHead, 30 /* E */, map[string]int{
		"foo":    10, // A
		"foobar": 20, // B
	})
	d := Build(pool, def)

	if pc, _ := d.Evaluate("foobarbaz"); pc != 20 {
		t.Fatalf("Evaluate(foobarbaz) = %d, want 20 (B)", pc)
	}
	if pc, _ := d.Evaluate("foozoo"); pc != 10 {
		t.Fatalf("Evaluate(foozoo) = %d, want 10 (A, via ancestor fallback)", pc)
	}
	if pc, _ := d.Evaluate("quux"); pc != 30 {
		t.Fatalf("Evaluate(quux) = %d, want 30 (E)", pc)
	}
}

func TestTailDispatcherMatchesBySuffix(t *testing.T) {
	pool := bytecode.NewConstantPool()
	def := newDef(pool, bytecode.MatchTail, 30, map[string]int{
		".go":     10,
		"test.go": 20,
	})
	d := Build(pool, def)

	if pc, _ := d.Evaluate("handler_gen_test.go"); pc != 20 {
		t.Fatalf("Evaluate(handler_gen_test.go) = %d, want 20", pc)
	}
	if pc, _ := d.Evaluate("generator.go"); pc != 10 {
		t.Fatalf("Evaluate(generator.go) = %d, want 10", pc)
	}
	if pc, _ := d.Evaluate("README.md"); pc != 30 {
		t.Fatalf("Evaluate(README.md) = %d, want 30 (else)", pc)
	}
}

func TestRegExpDispatcherFirstMatchWinsAndCapturesGroups(t *testing.T) {
	pool := bytecode.NewConstantPool()
	def := &bytecode.MatchDef{Class: bytecode.MatchRegExp, ElsePC: 99}
	def.Cases = []bytecode.MatchCase{
		{LabelIndex: pool.MakeString(`^(\d+)-(\d+)$`), PC: 1},
		{LabelIndex: pool.MakeString(`^\d+$`), PC: 2},
	}
	d := Build(pool, def)

	pc, groups := d.Evaluate("10-20")
	if pc != 1 {
		t.Fatalf("Evaluate(10-20) = %d, want 1", pc)
	}
	if len(groups) != 3 || groups[1] != "10" || groups[2] != "20" {
		t.Fatalf("Evaluate(10-20) groups = %v, want [10-20 10 20]", groups)
	}

	if pc, _ := d.Evaluate("42"); pc != 2 {
		t.Fatalf("Evaluate(42) = %d, want 2 (second pattern, first didn't match)", pc)
	}

	if pc, groups := d.Evaluate("nope"); pc != 99 || groups != nil {
		t.Fatalf("Evaluate(nope) = (%d, %v), want (99, nil)", pc, groups)
	}
}

func TestBuildPanicsOnUnknownClass(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Build to panic on an unknown match class")
		}
	}()
	pool := bytecode.NewConstantPool()
	Build(pool, &bytecode.MatchDef{Class: bytecode.MatchClass(255)})
}
