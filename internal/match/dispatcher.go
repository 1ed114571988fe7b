// Package match builds the specialized dispatchers a compiled MatchDef
// is evaluated through at runtime (spec.md 4.J): a hash lookup for Same,
// a pair of prefix tries for Head/Tail, and an ordered regex list for
// RegExp.
package match

import (
	"fmt"

	"github.com/contour-terminal/endo/internal/bytecode"
)

// Dispatcher evaluates a subject string against one MatchDef's cases,
// returning the target PC (the matching case's, or the def's ElsePC on
// a miss) and, for RegExp dispatchers only, the winning case's captured
// groups.
type Dispatcher interface {
	Evaluate(subject string) (pc int, groups []string)
}

// Build constructs the Dispatcher for a single MatchDef. Match defs are
// never deduplicated (internal/bytecode.ConstantPool.MakeMatchDef), so
// internal/vm builds one Dispatcher per def, once, at link time, and
// keeps it alongside the Program for the life of every Runner that
// shares it.
func Build(pool *bytecode.ConstantPool, def *bytecode.MatchDef) Dispatcher {
	switch def.Class {
	case bytecode.MatchSame:
		return buildSame(pool, def)
	case bytecode.MatchHead:
		return buildTrie(pool, def, false)
	case bytecode.MatchTail:
		return buildTrie(pool, def, true)
	case bytecode.MatchRegExp:
		return buildRegExp(pool, def)
	default:
		panic(fmt.Sprintf("match: unknown match class %v", def.Class))
	}
}
