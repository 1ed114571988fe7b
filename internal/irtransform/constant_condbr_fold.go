package irtransform

import (
	"github.com/contour-terminal/endo/internal/ir"
	"github.com/contour-terminal/endo/internal/literal"
)

// ConstantCondBranchFolding replaces a CondBr whose condition is a
// constant Boolean with an unconditional branch to the taken side
// (spec.md 4.F pass 3).
type ConstantCondBranchFolding struct{}

func (ConstantCondBranchFolding) Name() string { return "constant-condbr-folding" }

func (ConstantCondBranchFolding) Run(h *ir.IRHandler) bool {
	for _, b := range h.Blocks() {
		term := b.Terminator()
		if term == nil || term.Op != ir.OpCondBr {
			continue
		}
		cond, ok := term.Operand(0).(*ir.Constant)
		if !ok || cond.Kind != ir.ConstBool {
			continue
		}
		trueBlock, _ := term.Operand(1).(*ir.BasicBlock)
		falseBlock, _ := term.Operand(2).(*ir.BasicBlock)
		taken := falseBlock
		if cond.BoolVal {
			taken = trueBlock
		}
		b.RemoveTerminator()
		br := ir.NewInstr("", literal.Void, ir.OpBr)
		br.AppendOperand(taken)
		b.Append(br)
		return true
	}
	return false
}
