// Package codegen lowers a verified internal/ir.IRProgram to an
// internal/bytecode.Program: the target-code generator of spec.md 4.H.
//
// Lowering is a single linear pass per handler over a compile-time
// simulation of the operand stack. The simulation tracks, for every
// resident value, the absolute stack position it occupies rather than
// just the current depth, so a later reference to an earlier value can
// always be satisfied with a LOAD from that position. An operand that is
// already on top of the stack emits nothing; any other operand is
// duplicated to the top with a LOAD from its recorded position. A deeper
// operand is never rotated to the top with STACKROT, even when this is
// its last use.
package codegen

import (
	"github.com/contour-terminal/endo/internal/bytecode"
	"github.com/contour-terminal/endo/internal/ir"
)

// generator owns the bytecode Program under construction and the global
// (non-handler-scoped) slot assignment shared by every handler.
type generator struct {
	bcProg     *bytecode.Program
	globalSlot map[*ir.Instr]int
}

// Generate lowers every handler of prog, in declaration order, into a
// linked-but-not-yet-resolved bytecode.Program (native signatures remain
// unresolved pool entries until Program.Link runs).
func Generate(prog *ir.IRProgram) *bytecode.Program {
	g := &generator{
		bcProg:     bytecode.NewProgram(),
		globalSlot: make(map[*ir.Instr]int),
	}
	for _, imp := range prog.Imports {
		g.bcProg.Imports = append(g.bcProg.Imports, bytecode.Import{
			ModuleName: imp.ModuleName,
			ModulePath: imp.ModulePath,
		})
	}
	if main, ok := prog.Handler(ir.GlobalInitHandlerName); ok {
		g.collectGlobalSlots(main)
	}
	for _, h := range prog.Handlers() {
		g.bcProg.Handlers = append(g.bcProg.Handlers, g.generateHandler(h))
	}
	return g.bcProg
}

// collectGlobalSlots assigns every global Alloca in the synthetic
// global-init handler a monotonic slot index before any handler's body
// is generated, so a forward reference from a handler declared earlier
// in the program still resolves (spec.md 4.H).
func (g *generator) collectGlobalSlots(main *ir.IRHandler) {
	next := 0
	for _, b := range main.Blocks() {
		for _, instr := range b.Instrs() {
			if instr.Op == ir.OpAlloca && instr.AllocaGlob {
				g.globalSlot[instr] = next
				next++
			}
		}
	}
}

func (g *generator) generateHandler(irh *ir.IRHandler) *bytecode.Handler {
	hg := newHandlerGen(g, irh)
	hg.allocatePhiSlots()
	for _, b := range irh.Blocks() {
		hg.currentBlock = b
		hg.blockStart[b] = len(hg.code)
		for _, instr := range b.Instrs() {
			hg.genInstr(instr)
		}
	}
	hg.flushThunks()
	hg.resolveFixups()
	hg.resolveMatches()
	return bytecode.NewHandler(irh.Name, g.bcProg, hg.code)
}
