package vm

import (
	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/match"
)

// BuildDispatchers compiles one internal/match.Dispatcher per MatchDef
// reserved in prog's pool. Call it once after Program.Link and share
// the result across every Runner that shares prog, the same way
// Program.ResolvedFuncs/ResolvedHandlers are computed once and shared
// (spec.md 4.I, 5) — match defs are never deduplicated, but the
// Dispatcher built for each is pure and stateless, so rebuilding it per
// Runner would only waste the RegExp class's compile step for nothing.
func BuildDispatchers(prog *bytecode.Program) []match.Dispatcher {
	n := prog.Pool.MatchDefCount()
	out := make([]match.Dispatcher, n)
	for i := 0; i < n; i++ {
		out[i] = match.Build(prog.Pool, prog.Pool.MatchDef(i))
	}
	return out
}
