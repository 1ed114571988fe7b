package irtransform

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// DeadInstructionElimination removes a call to a SideEffectFree builtin
// whose result is non-void and unused (spec.md 4.F pass 5). The
// SideEffectFree attribute is declared by the native-callback registry
// and recorded on the program via ir.IRProgram.MarkSideEffectFree.
type DeadInstructionElimination struct{}

func (DeadInstructionElimination) Name() string { return "dead-instruction-elimination" }

func (DeadInstructionElimination) Run(h *ir.IRHandler) bool {
	for _, b := range h.Blocks() {
		for _, instr := range b.Instrs() {
			if instr.Op != ir.OpCall || instr.Type() == literal.Void {
				continue
			}
			if instr.IsUsed() {
				continue
			}
			if h.Program == nil || !h.Program.IsSideEffectFree(instr.Callee) {
				continue
			}
			instr.Destroy()
			b.RemoveInstr(instr)
			return true
		}
	}
	return false
}
