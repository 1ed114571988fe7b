package irtransform

import "github.com/contour-terminal/endo/internal/ir"

// BranchToExitRewrite clones a lone Ret into a block that branches
// straight to it, dropping the branch, whenever the target isn't already
// the block's immediate successor in linear layout (in which case the
// code generator elides the jump for free and rewriting would just grow
// the handler for no benefit) (spec.md 4.F pass 7).
type BranchToExitRewrite struct{}

func (BranchToExitRewrite) Name() string { return "branch-to-exit-rewrite" }

func (BranchToExitRewrite) Run(h *ir.IRHandler) bool {
	for _, b := range h.Blocks() {
		term := b.Terminator()
		if term == nil || term.Op != ir.OpBr {
			continue
		}
		target, ok := term.Operand(0).(*ir.BasicBlock)
		if !ok {
			continue
		}
		instrs := target.Instrs()
		if len(instrs) != 1 || instrs[0].Op != ir.OpRet {
			continue
		}
		if h.IsImmediatelyAfter(target, b) {
			continue
		}
		clone := instrs[0].Clone()
		b.RemoveTerminator()
		b.Append(clone)
		return true
	}
	return false
}
