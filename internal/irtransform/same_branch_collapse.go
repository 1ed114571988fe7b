package irtransform

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// SameBranchCondCollapse replaces a CondBr whose true and false targets
// are the same block with an unconditional branch, since the condition's
// value no longer affects control flow (spec.md 4.F pass 4).
type SameBranchCondCollapse struct{}

func (SameBranchCondCollapse) Name() string { return "same-branch-cond-collapse" }

func (SameBranchCondCollapse) Run(h *ir.IRHandler) bool {
	for _, b := range h.Blocks() {
		term := b.Terminator()
		if term == nil || term.Op != ir.OpCondBr {
			continue
		}
		trueBlock, ok1 := term.Operand(1).(*ir.BasicBlock)
		falseBlock, ok2 := term.Operand(2).(*ir.BasicBlock)
		if !ok1 || !ok2 || trueBlock != falseBlock {
			continue
		}
		b.RemoveTerminator()
		br := ir.NewInstr("", literal.Void, ir.OpBr)
		br.AppendOperand(trueBlock)
		b.Append(br)
		return true
	}
	return false
}
