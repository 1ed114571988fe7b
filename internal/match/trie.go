package match

import "github.com/contour-terminal/endo/internal/bytecode"

// trieNode is a per-character prefix tree node. Head dispatch walks a
// trie built from the case labels as written; Tail dispatch walks the
// same structure built and queried over reversed strings, which is all
// a suffix tree is (spec.md 4.J).
type trieNode struct {
	children map[byte]*trieNode
	hasValue bool
	pc       int
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

func (n *trieNode) insert(key string, pc int) {
	cur := n
	for i := 0; i < len(key); i++ {
		c := key[i]
		child, ok := cur.children[c]
		if !ok {
			child = newTrieNode()
			cur.children[c] = child
		}
		cur = child
	}
	cur.hasValue = true
	cur.pc = pc
}

// lookup walks s one character at a time, descending as far as the trie
// allows, and remembers the deepest value-bearing node visited along
// the way. A probe that runs past the longest matching case (e.g.
// "foobarbaz" against a case "foobar") still resolves to that case's
// value; a probe that diverges before reaching any case (e.g. "foozoo"
// against cases "foo" and "foobar") falls back to the closest ancestor
// that does carry one.
func (n *trieNode) lookup(s string) (pc int, ok bool) {
	cur := n
	if cur.hasValue {
		pc, ok = cur.pc, true
	}
	for i := 0; i < len(s); i++ {
		child, found := cur.children[s[i]]
		if !found {
			break
		}
		cur = child
		if cur.hasValue {
			pc, ok = cur.pc, true
		}
	}
	return pc, ok
}

func reverse(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[len(s)-1-i] = s[i]
	}
	return string(b)
}

// trieDispatcher serves both MatchHead and MatchTail; reversed controls
// whether labels and probes are walked front-to-back or back-to-front.
type trieDispatcher struct {
	root     *trieNode
	elsePC   int
	reversed bool
}

func buildTrie(pool *bytecode.ConstantPool, def *bytecode.MatchDef, reversed bool) *trieDispatcher {
	d := &trieDispatcher{root: newTrieNode(), elsePC: def.ElsePC, reversed: reversed}
	for _, c := range def.Cases {
		label := pool.String(c.LabelIndex)
		if reversed {
			label = reverse(label)
		}
		d.root.insert(label, c.PC)
	}
	return d
}

func (d *trieDispatcher) Evaluate(subject string) (int, []string) {
	probe := subject
	if d.reversed {
		probe = reverse(probe)
	}
	if pc, ok := d.root.lookup(probe); ok {
		return pc, nil
	}
	return d.elsePC, nil
}
